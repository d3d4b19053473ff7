package analytics

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/crm"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/employees"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/tasks"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"gorm.io/gorm"
)

type Store interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Snapshot reads the columns the dashboard needs inside one read-only
// transaction so all figures describe the same moment.
func (s *GormStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY").Error; err != nil {
			return fmt.Errorf("begin snapshot: %w", err)
		}
		if err := tx.Model(&crm.Lead{}).Pluck("stage", &snap.LeadStages).Error; err != nil {
			return fmt.Errorf("load lead stages: %w", err)
		}
		if err := tx.Model(&crm.Deal{}).Select("stage", "value").Scan(&snap.Deals).Error; err != nil {
			return fmt.Errorf("load deals: %w", err)
		}
		if err := tx.Model(&tasks.Task{}).Pluck("completed", &snap.TaskCompleted).Error; err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		err := tx.Model(&employees.Employee{}).
			Joins("JOIN users ON users.id = employees.user_id").
			Where("users.status = ?", models.StatusActive).
			Count(&snap.ActiveEmployees).Error
		if err != nil {
			return fmt.Errorf("count active employees: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
