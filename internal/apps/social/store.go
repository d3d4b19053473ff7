package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound = apperr.NotFound("Social profile")
	ErrPostNotFound    = apperr.NotFound("Scheduled post")
	ErrUnknownOwner    = apperr.Field("userId", "must reference an existing user")
	ErrUnknownProfile  = apperr.Field("profileId", "must reference an existing social profile")
	ErrUnknownAssignee = apperr.Field("assignedTo", "must reference an existing user")
)

type ProfileStore interface {
	List(ctx context.Context, f ProfileFilter) ([]Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Save(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostStore interface {
	List(ctx context.Context, v access.Viewer, f PostFilter) ([]Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, p *Post) error
	Save(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, v access.Viewer, now, horizon time.Time) (*Stats, error)

	// Atomic runs fn in one transaction. Rows returned by Lock stay locked
	// until fn returns, and nothing fn wrote survives an error.
	Atomic(ctx context.Context, fn func(tx PostStore) error) error
	Lock(ctx context.Context, ids []uuid.UUID) ([]Post, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
}

type GormProfileStore struct {
	db *gorm.DB
}

func NewGormProfileStore(db *gorm.DB) *GormProfileStore {
	return &GormProfileStore{db: db}
}

func (s *GormProfileStore) List(ctx context.Context, f ProfileFilter) ([]Profile, error) {
	q := s.db.WithContext(ctx).Model(&Profile{})
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var out []Profile
	if err := q.Order("connected_date DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list social profiles: %w", err)
	}
	return out, nil
}

func (s *GormProfileStore) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get social profile: %w", err)
	}
	return &p, nil
}

func (s *GormProfileStore) Create(ctx context.Context, p *Profile) error {
	err := s.db.WithContext(ctx).Create(p).Error
	switch {
	case err == nil:
		return nil
	case database.IsForeignKeyViolation(err):
		return ErrUnknownOwner
	default:
		return fmt.Errorf("create social profile: %w", err)
	}
}

func (s *GormProfileStore) Save(ctx context.Context, p *Profile) error {
	res := s.db.WithContext(ctx).Model(p).Select("*").Omit("id", "user_id", "connected_date", "created_at").Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update social profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *GormProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Profile{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete social profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type GormPostStore struct {
	db *gorm.DB
}

func NewGormPostStore(db *gorm.DB) *GormPostStore {
	return &GormPostStore{db: db}
}

func (s *GormPostStore) visible(ctx context.Context, v access.Viewer) *gorm.DB {
	return s.db.WithContext(ctx).Model(&Post{}).
		Scopes(access.VisibleTo(v, "posting_schedule.assigned_to", "posting_schedule.created_by"))
}

func (s *GormPostStore) List(ctx context.Context, v access.Viewer, f PostFilter) ([]Post, error) {
	q := s.visible(ctx, v)
	if f.ProfileID != nil {
		q = q.Where("profile_id = ?", *f.ProfileID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("scheduled_date_time >= ?", *f.From)
	}
	if f.Until != nil {
		q = q.Where("scheduled_date_time < ?", *f.Until)
	}
	var out []Post
	if err := q.Order("scheduled_date_time DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list posting schedule: %w", err)
	}
	return out, nil
}

func (s *GormPostStore) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	var p Post
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled post: %w", err)
	}
	return &p, nil
}

func translatePostErr(err error, op string) error {
	if database.IsForeignKeyViolation(err) {
		switch database.ConstraintName(err) {
		case "posting_schedule_profile_id_fkey":
			return ErrUnknownProfile
		case "posting_schedule_assigned_to_fkey":
			return ErrUnknownAssignee
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *GormPostStore) Create(ctx context.Context, p *Post) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return translatePostErr(err, "create scheduled post")
	}
	return nil
}

func (s *GormPostStore) Save(ctx context.Context, p *Post) error {
	res := s.db.WithContext(ctx).Model(p).Select("*").Omit("id", "created_by", "clone_of", "created_at").Updates(p)
	if res.Error != nil {
		return translatePostErr(res.Error, "update scheduled post")
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *GormPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete scheduled post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *GormPostStore) Stats(ctx context.Context, v access.Viewer, now, horizon time.Time) (*Stats, error) {
	out := &Stats{ByPlatform: []PlatformCount{}}

	err := s.visible(ctx, v).
		Select("sp.platform AS platform, COUNT(*) AS count").
		Joins("JOIN social_profiles AS sp ON sp.id = posting_schedule.profile_id").
		Group("sp.platform").
		Order("sp.platform").
		Scan(&out.ByPlatform).Error
	if err != nil {
		return nil, fmt.Errorf("count posts by platform: %w", err)
	}

	err = s.visible(ctx, v).
		Where("status = ? AND scheduled_date_time >= ? AND scheduled_date_time <= ?", StatusScheduled, now, horizon).
		Count(&out.Upcoming).Error
	if err != nil {
		return nil, fmt.Errorf("count upcoming posts: %w", err)
	}

	if err := s.visible(ctx, v).Where("approval_status = ?", ApprovalPending).Count(&out.Pending).Error; err != nil {
		return nil, fmt.Errorf("count pending posts: %w", err)
	}
	return out, nil
}

func (s *GormPostStore) Atomic(ctx context.Context, fn func(tx PostStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormPostStore{db: tx})
	})
}

// Lock takes row locks in id order so concurrent bulk calls cannot deadlock.
func (s *GormPostStore) Lock(ctx context.Context, ids []uuid.UUID) ([]Post, error) {
	var out []Post
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("lock scheduled posts: %w", err)
	}
	return out, nil
}

func (s *GormPostStore) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Post{}).Error; err != nil {
		return fmt.Errorf("delete scheduled posts: %w", err)
	}
	return nil
}
