package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = apperr.NotFound("Attendance record")
	ErrAlreadyOpen        = apperr.New(apperr.KindConflict, "ALREADY_MARKED_IN", "You are already marked in")
	ErrAlreadyMarkedToday = apperr.New(apperr.KindConflict, "ALREADY_MARKED_TODAY", "You have already marked attendance today")
	ErrAlreadyClosed      = apperr.New(apperr.KindConflict, "ALREADY_MARKED_OUT", "This record is already marked out")
	ErrInvalidMarkOutTime = apperr.New(apperr.KindValidation, "INVALID_MARK_OUT_TIME", "Mark-out time must be after mark-in time")
)

const (
	constraintOpenInterval = "uq_attendance_open_interval"
	constraintUserDate     = "uq_attendance_user_date"
	constraintInterval     = "chk_attendance_interval"
)

type Store interface {
	OpenFor(ctx context.Context, userID uuid.UUID) (*Record, error)
	ForDate(ctx context.Context, userID uuid.UUID, date string) (*Record, error)
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Insert(ctx context.Context, r *Record) error
	// Close sets the mark-out time only while the record is still open.
	Close(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error
	List(ctx context.Context, v access.Viewer, q Query) ([]View, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// first returns nil, nil when nothing matches.
func (s *GormStore) first(ctx context.Context, op string, query string, args ...any) (*Record, error) {
	var r Record
	err := s.db.WithContext(ctx).Where(query, args...).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

func (s *GormStore) OpenFor(ctx context.Context, userID uuid.UUID) (*Record, error) {
	return s.first(ctx, "find open interval", "user_id = ? AND mark_out_time IS NULL", userID)
}

func (s *GormStore) ForDate(ctx context.Context, userID uuid.UUID, date string) (*Record, error) {
	return s.first(ctx, "find attendance for date", "user_id = ? AND date = ?", userID, date)
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	r, err := s.first(ctx, "get attendance", "id = ?", id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *GormStore) Insert(ctx context.Context, r *Record) error {
	err := s.db.WithContext(ctx).Create(r).Error
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		switch database.ConstraintName(err) {
		case constraintOpenInterval:
			return ErrAlreadyOpen
		case constraintUserDate:
			return ErrAlreadyMarkedToday
		}
	}
	return fmt.Errorf("insert attendance: %w", err)
}

func (s *GormStore) Close(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&Record{}).
		Where("id = ? AND mark_out_time IS NULL", id).
		Updates(map[string]any{"mark_out_time": at, "updated_at": updatedAt})
	if res.Error != nil {
		if database.IsCheckViolation(res.Error) && database.ConstraintName(res.Error) == constraintInterval {
			return ErrInvalidMarkOutTime
		}
		return fmt.Errorf("mark out: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyClosed
	}
	return nil
}

type viewRow struct {
	Record
	FirstName string
	LastName  string
	Email     string
}

func (s *GormStore) List(ctx context.Context, v access.Viewer, q Query) ([]View, error) {
	db := s.db.WithContext(ctx).Table("attendance AS a").
		Select("a.*, u.first_name, u.last_name, u.email").
		Joins("JOIN users AS u ON u.id = a.user_id").
		Scopes(access.VisibleTo(v, "a.user_id", "a.user_id"))
	if q.StartDate != "" {
		db = db.Where("a.date >= ?", q.StartDate)
	}
	if q.EndDate != "" {
		db = db.Where("a.date <= ?", q.EndDate)
	}
	if q.UserID != nil {
		db = db.Where("a.user_id = ?", *q.UserID)
	}

	var rows []viewRow
	if err := db.Order("a.date DESC, a.mark_in_time DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	out := make([]View, 0, len(rows))
	for _, r := range rows {
		out = append(out, View{
			Record:    r.Record,
			UserName:  models.DisplayName(r.FirstName, r.LastName, r.Email),
			UserEmail: r.Email,
		})
	}
	return out, nil
}
