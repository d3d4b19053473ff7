package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore is the credential store.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string, updatedAt time.Time) error
	List(ctx context.Context, activeOnly bool) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// FindByEmail matches the email exactly, case included.
func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormUserStore) Save(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Model(u).Select(
		"first_name", "last_name", "profile_image_url", "role", "status", "manager_id", "updated_at",
	).Updates(u).Error
	switch {
	case err == nil:
		return nil
	case database.IsCheckViolation(err):
		return ErrOwnManager
	case database.IsForeignKeyViolation(err):
		return ErrUnknownManager
	default:
		return fmt.Errorf("update user: %w", err)
	}
}

func (s *GormUserStore) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": updatedAt})
	if res.Error != nil {
		return fmt.Errorf("set password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormUserStore) List(ctx context.Context, activeOnly bool) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("first_name ASC, last_name ASC, email ASC")
	if activeOnly {
		q = q.Where("status = ?", models.StatusActive)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete removes the user. Direct reports keep existing with manager_id set
// to null by the foreign key.
func (s *GormUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		if database.IsForeignKeyViolation(res.Error) {
			return ErrUserHasDependents
		}
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
