package crm

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
	ErrLeadNotFound    = apperr.NotFound("Lead")
	ErrDealNotFound    = apperr.NotFound("Deal")
	ErrUnknownAssignee = apperr.Field("assignedTo", "must reference an existing user")
)

type Store interface {
	ListLeads(ctx context.Context, f Filter) ([]Lead, error)
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	CreateLead(ctx context.Context, l *Lead) error
	SaveLead(ctx context.Context, l *Lead) error
	DeleteLead(ctx context.Context, id uuid.UUID) error

	ListDeals(ctx context.Context, f Filter) ([]Deal, error)
	GetDeal(ctx context.Context, id uuid.UUID) (*Deal, error)
	CreateDeal(ctx context.Context, d *Deal) error
	SaveDeal(ctx context.Context, d *Deal) error
	DeleteDeal(ctx context.Context, id uuid.UUID) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx)
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	return q.Order("created_at DESC")
}

func (s *GormStore) ListLeads(ctx context.Context, f Filter) ([]Lead, error) {
	var leads []Lead
	if err := s.filtered(ctx, f).Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *GormStore) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var l Lead
	if err := s.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

func (s *GormStore) CreateLead(ctx context.Context, l *Lead) error {
	return translate(s.db.WithContext(ctx).Create(l).Error, "create lead")
}

func (s *GormStore) SaveLead(ctx context.Context, l *Lead) error {
	res := s.db.WithContext(ctx).Model(l).Select("*").Omit("id", "created_at").Updates(l)
	if res.Error == nil && res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return translate(res.Error, "update lead")
}

func (s *GormStore) DeleteLead(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Lead{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete lead: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (s *GormStore) ListDeals(ctx context.Context, f Filter) ([]Deal, error) {
	var deals []Deal
	if err := s.filtered(ctx, f).Find(&deals).Error; err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

func (s *GormStore) GetDeal(ctx context.Context, id uuid.UUID) (*Deal, error) {
	var d Deal
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return &d, nil
}

func (s *GormStore) CreateDeal(ctx context.Context, d *Deal) error {
	return translate(s.db.WithContext(ctx).Create(d).Error, "create deal")
}

func (s *GormStore) SaveDeal(ctx context.Context, d *Deal) error {
	res := s.db.WithContext(ctx).Model(d).Select("*").Omit("id", "created_at").Updates(d)
	if res.Error == nil && res.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return translate(res.Error, "update deal")
}

func (s *GormStore) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&Deal{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete deal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return nil
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case database.IsForeignKeyViolation(err):
		return ErrUnknownAssignee
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
