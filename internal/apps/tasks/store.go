package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = apperr.NotFound("Task")
	ErrUnknownAssignee = apperr.Field("assignedTo", "must reference an existing user")
)

type Store interface {
	List(ctx context.Context, f Filter) ([]Task, error)
	Get(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Save(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]Task, error) {
	q := s.db.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	var out []Task
	if err := q.Order("due_date ASC NULLS LAST, created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	var t Task
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *GormStore) Create(ctx context.Context, t *Task) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrUnknownAssignee
		}
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, t *Task) error {
	res := s.db.WithContext(ctx).Model(t).Select("*").Omit("id", "created_at").Updates(t)
	if res.Error != nil {
		if database.IsForeignKeyViolation(res.Error) {
			return ErrUnknownAssignee
		}
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
