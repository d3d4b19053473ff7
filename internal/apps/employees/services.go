package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/google/uuid"
)

type Service struct {
	store    Store
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewService(store Store, clk clock.Clock, activity apps.ActivityRecorder) *Service {
	return &Service{store: store, clock: clk, activity: activity}
}

func (s *Service) List(ctx context.Context, department string) ([]View, error) {
	out, err := s.store.List(ctx, department)
	if err != nil {
		return nil, apperr.Internal(err, "list employees")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get employee")
	}
	return v, nil
}

func (s *Service) Create(ctx context.Context, actor access.Principal, req *CreateRequest) (*View, error) {
	now := s.clock.Now()
	e := &Employee{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Department: strings.TrimSpace(req.Department),
		Phone:      req.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.PerformanceScore != nil {
		e.PerformanceScore = *req.PerformanceScore
	}
	if e.Department == "" {
		return nil, apperr.Field("department", "is required")
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, classify(err, "create employee")
	}

	v, err := s.Get(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "employee_created",
		EntityType:   "employee",
		EntityID:     &e.ID,
		TargetUserID: &e.UserID,
		Description:  fmt.Sprintf("%s added %s to %s", actor.Name, v.Name, e.Department),
	})
	return v, nil
}

func (s *Service) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdateRequest) (*View, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get employee")
	}
	e := v.Employee

	if req.Department != nil {
		e.Department = strings.TrimSpace(*req.Department)
		if e.Department == "" {
			return nil, apperr.Field("department", "is required")
		}
	}
	if req.Phone.Set {
		e.Phone = req.Phone.Ptr()
	}
	if req.PerformanceScore != nil {
		e.PerformanceScore = *req.PerformanceScore
	}
	e.UpdatedAt = clock.NextStamp(s.clock.Now(), e.UpdatedAt)

	if err := s.store.Save(ctx, &e); err != nil {
		return nil, classify(err, "update employee")
	}
	v.Employee = e

	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "employee_updated",
		EntityType:   "employee",
		EntityID:     &e.ID,
		TargetUserID: &e.UserID,
		Description:  fmt.Sprintf("%s updated employee %s", actor.Name, v.Name),
	})
	return v, nil
}

func (s *Service) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return classify(err, "get employee")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "delete employee")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "employee_deleted",
		EntityType:   "employee",
		TargetUserID: &v.UserID,
		Description:  fmt.Sprintf("%s removed employee record of %s", actor.Name, v.Name),
	})
	return nil
}

func classify(err error, op string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
