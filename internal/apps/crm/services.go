package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNegativeValue = apperr.Field("value", "must be greater than or equal to 0")

type Service struct {
	store    Store
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewService(store Store, clk clock.Clock, activity apps.ActivityRecorder) *Service {
	return &Service{store: store, clock: clk, activity: activity}
}

func (s *Service) ListLeads(ctx context.Context, f Filter) ([]Lead, error) {
	leads, err := s.store.ListLeads(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err, "list leads")
	}
	return leads, nil
}

func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	l, err := s.store.GetLead(ctx, id)
	return l, classify(err, "get lead")
}

func (s *Service) CreateLead(ctx context.Context, actor access.Principal, req *CreateLeadRequest) (*Lead, error) {
	now := s.clock.Now()
	l := &Lead{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Company:     strings.TrimSpace(req.Company),
		Email:       strings.TrimSpace(req.Email),
		Phone:       req.Phone,
		Stage:       stageOr(req.Stage, StageLead),
		AssignedTo:  req.AssignedTo,
		Notes:       req.Notes,
		LastContact: req.LastContact,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if l.Name == "" || l.Company == "" {
		return nil, apperr.Validation("Name and company are required", nil)
	}
	if err := s.store.CreateLead(ctx, l); err != nil {
		return nil, classify(err, "create lead")
	}

	s.record(ctx, actor, "lead_created", "lead", l.ID, l.AssignedTo,
		fmt.Sprintf("%s created lead %s", actor.Name, l.Name), map[string]any{"stage": l.Stage})
	return l, nil
}

func (s *Service) UpdateLead(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdateLeadRequest) (*Lead, error) {
	l, err := s.store.GetLead(ctx, id)
	if err != nil {
		return nil, classify(err, "get lead")
	}
	prevStage := l.Stage

	if req.Name != nil {
		l.Name = strings.TrimSpace(*req.Name)
	}
	if req.Company != nil {
		l.Company = strings.TrimSpace(*req.Company)
	}
	if req.Email != nil {
		l.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone.Set {
		l.Phone = req.Phone.Ptr()
	}
	if req.Stage != nil {
		l.Stage = Stage(*req.Stage)
	}
	if req.AssignedTo.Set {
		l.AssignedTo = req.AssignedTo.Ptr()
	}
	if req.Notes.Set {
		l.Notes = req.Notes.Ptr()
	}
	if req.LastContact.Set {
		l.LastContact = req.LastContact.Ptr()
	}
	if l.Name == "" || l.Company == "" {
		return nil, apperr.Validation("Name and company are required", nil)
	}
	l.UpdatedAt = clock.NextStamp(s.clock.Now(), l.UpdatedAt)

	if err := s.store.SaveLead(ctx, l); err != nil {
		return nil, classify(err, "update lead")
	}

	if l.Stage != prevStage {
		s.record(ctx, actor, "lead_stage_changed", "lead", l.ID, l.AssignedTo,
			fmt.Sprintf("%s moved lead %s from %s to %s", actor.Name, l.Name, prevStage, l.Stage),
			map[string]any{"from": prevStage, "to": l.Stage})
	}
	return l, nil
}

func (s *Service) DeleteLead(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	l, err := s.store.GetLead(ctx, id)
	if err != nil {
		return classify(err, "get lead")
	}
	if err := s.store.DeleteLead(ctx, id); err != nil {
		return classify(err, "delete lead")
	}
	s.record(ctx, actor, "lead_deleted", "lead", l.ID, nil,
		fmt.Sprintf("%s deleted lead %s", actor.Name, l.Name), nil)
	return nil
}

func (s *Service) ListDeals(ctx context.Context, f Filter) ([]Deal, error) {
	deals, err := s.store.ListDeals(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err, "list deals")
	}
	return deals, nil
}

func (s *Service) GetDeal(ctx context.Context, id uuid.UUID) (*Deal, error) {
	d, err := s.store.GetDeal(ctx, id)
	return d, classify(err, "get deal")
}

func (s *Service) CreateDeal(ctx context.Context, actor access.Principal, req *CreateDealRequest) (*Deal, error) {
	value := decimal.Zero
	if req.Value != nil {
		value = *req.Value
	}
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}

	now := s.clock.Now()
	d := &Deal{
		ID:         uuid.New(),
		Title:      strings.TrimSpace(req.Title),
		Company:    strings.TrimSpace(req.Company),
		Value:      value.Round(2),
		Stage:      stageOr(req.Stage, StageLead),
		AssignedTo: req.AssignedTo,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if d.Title == "" || d.Company == "" {
		return nil, apperr.Validation("Title and company are required", nil)
	}
	if err := s.store.CreateDeal(ctx, d); err != nil {
		return nil, classify(err, "create deal")
	}

	s.record(ctx, actor, "deal_created", "deal", d.ID, d.AssignedTo,
		fmt.Sprintf("%s created deal %s", actor.Name, d.Title),
		map[string]any{"stage": d.Stage, "value": d.Value.StringFixed(2)})
	return d, nil
}

func (s *Service) UpdateDeal(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdateDealRequest) (*Deal, error) {
	d, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return nil, classify(err, "get deal")
	}
	prevStage := d.Stage

	if req.Title != nil {
		d.Title = strings.TrimSpace(*req.Title)
	}
	if req.Company != nil {
		d.Company = strings.TrimSpace(*req.Company)
	}
	if req.Value != nil {
		if req.Value.IsNegative() {
			return nil, ErrNegativeValue
		}
		d.Value = req.Value.Round(2)
	}
	if req.Stage != nil {
		d.Stage = Stage(*req.Stage)
	}
	if req.AssignedTo.Set {
		d.AssignedTo = req.AssignedTo.Ptr()
	}
	if req.DueDate.Set {
		d.DueDate = req.DueDate.Ptr()
	}
	if req.Notes.Set {
		d.Notes = req.Notes.Ptr()
	}
	if d.Title == "" || d.Company == "" {
		return nil, apperr.Validation("Title and company are required", nil)
	}
	d.UpdatedAt = clock.NextStamp(s.clock.Now(), d.UpdatedAt)

	if err := s.store.SaveDeal(ctx, d); err != nil {
		return nil, classify(err, "update deal")
	}

	if d.Stage != prevStage {
		s.record(ctx, actor, "deal_stage_changed", "deal", d.ID, d.AssignedTo,
			fmt.Sprintf("%s moved deal %s from %s to %s", actor.Name, d.Title, prevStage, d.Stage),
			map[string]any{"from": prevStage, "to": d.Stage})
	}
	return d, nil
}

func (s *Service) DeleteDeal(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	d, err := s.store.GetDeal(ctx, id)
	if err != nil {
		return classify(err, "get deal")
	}
	if err := s.store.DeleteDeal(ctx, id); err != nil {
		return classify(err, "delete deal")
	}
	s.record(ctx, actor, "deal_deleted", "deal", d.ID, nil,
		fmt.Sprintf("%s deleted deal %s", actor.Name, d.Title), nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor access.Principal, typ, entity string, id uuid.UUID, target *uuid.UUID, desc string, meta map[string]any) {
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         typ,
		EntityType:   entity,
		EntityID:     &id,
		TargetUserID: target,
		Description:  desc,
		Metadata:     meta,
	})
}

func stageOr(raw string, def Stage) Stage {
	if raw == "" {
		return def
	}
	return Stage(raw)
}

// classify keeps store sentinels and marks anything else internal.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
