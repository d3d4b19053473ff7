package employees

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = apperr.NotFound("Employee")
	ErrEmployeeExists = apperr.New(apperr.KindConflict, "EMPLOYEE_EXISTS", "This user already has an employee record")
	ErrUnknownUser    = apperr.Field("userId", "must reference an existing user")
)

type Store interface {
	List(ctx context.Context, department string) ([]View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Create(ctx context.Context, e *Employee) error
	Save(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

type viewRow struct {
	Employee
	FirstName string
	LastName  string
	Email     string
	Role      string
	Status    string
}

func (r viewRow) view() View {
	return View{
		Employee:   r.Employee,
		Name:       models.DisplayName(r.FirstName, r.LastName, r.Email),
		Email:      r.Email,
		Role:       r.Role,
		UserStatus: r.Status,
	}
}

func (s *GormStore) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("employees AS e").
		Select("e.*, u.first_name, u.last_name, u.email, u.role, u.status").
		Joins("JOIN users AS u ON u.id = e.user_id")
}

func (s *GormStore) List(ctx context.Context, department string) ([]View, error) {
	q := s.joined(ctx)
	if department != "" {
		q = q.Where("e.department = ?", department)
	}
	var rows []viewRow
	if err := q.Order("u.first_name ASC, u.last_name ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	out := make([]View, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	var rows []viewRow
	if err := s.joined(ctx).Where("e.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := rows[0].view()
	return &v, nil
}

func (s *GormStore) Create(ctx context.Context, e *Employee) error {
	err := s.db.WithContext(ctx).Create(e).Error
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return ErrEmployeeExists
	case database.IsForeignKeyViolation(err):
		return ErrUnknownUser
	default:
		return fmt.Errorf("create employee: %w", err)
	}
}

func (s *GormStore) Save(ctx context.Context, e *Employee) error {
	res := s.db.WithContext(ctx).Model(e).
		Select("department", "phone", "performance_score", "updated_at").Updates(e)
	if res.Error != nil {
		return fmt.Errorf("update employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
