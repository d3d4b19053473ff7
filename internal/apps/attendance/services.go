package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/google/uuid"
)

var errMarkOutTimeAdminOnly = apperr.Field("markOutTime", "may only be set by an admin")

type Service struct {
	store    Store
	teams    access.TeamResolver
	clock    clock.Clock
	loc      *time.Location
	activity apps.ActivityRecorder
}

func NewService(store Store, teams access.TeamResolver, clk clock.Clock, loc *time.Location, activity apps.ActivityRecorder) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, teams: teams, clock: clk, loc: loc, activity: activity}
}

// DateOf is the attendance day t falls on.
func (s *Service) DateOf(t time.Time) string {
	return t.In(s.loc).Format(validation.DateLayout)
}

// MarkIn opens today's interval. The lookups give friendly errors; the unique
// indexes behind Insert decide races between concurrent calls.
func (s *Service) MarkIn(ctx context.Context, actor access.Principal) (*Record, error) {
	now := s.clock.Now()
	date := s.DateOf(now)

	open, err := s.store.OpenFor(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Internal(err, "mark in")
	}
	if open != nil {
		return nil, ErrAlreadyOpen
	}
	today, err := s.store.ForDate(ctx, actor.UserID, date)
	if err != nil {
		return nil, apperr.Internal(err, "mark in")
	}
	if today != nil {
		return nil, ErrAlreadyMarkedToday
	}

	r := &Record{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		Date:       date,
		MarkInTime: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return nil, classify(err, "mark in")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "attendance_marked_in",
		EntityType:  "attendance",
		EntityID:    &r.ID,
		Description: fmt.Sprintf("%s marked in", actor.Name),
		Metadata:    map[string]any{"date": date},
	})
	return r, nil
}

// MarkOut closes an interval. Only admins may close someone else's record or
// choose the mark-out time; everyone else closes their own at server time.
func (s *Service) MarkOut(ctx context.Context, actor access.Principal, id uuid.UUID, req *MarkOutRequest) (*Record, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "mark out")
	}
	if r.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, apperr.Forbidden("You can only mark out your own attendance")
	}
	if !r.Open() {
		return nil, ErrAlreadyClosed
	}

	now := s.clock.Now()
	at := now
	if req != nil && req.MarkOutTime != nil {
		if !actor.IsAdmin() {
			return nil, errMarkOutTimeAdminOnly
		}
		at = req.MarkOutTime.UTC()
	}
	if !at.After(r.MarkInTime) {
		return nil, ErrInvalidMarkOutTime
	}

	updatedAt := clock.NextStamp(now, r.UpdatedAt)
	if err := s.store.Close(ctx, id, at, updatedAt); err != nil {
		return nil, classify(err, "mark out")
	}
	r.MarkOutTime = &at
	r.UpdatedAt = updatedAt

	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "attendance_marked_out",
		EntityType:   "attendance",
		EntityID:     &r.ID,
		TargetUserID: &r.UserID,
		Description:  fmt.Sprintf("%s marked out", actor.Name),
		Metadata:     map[string]any{"date": r.Date, "hours": at.Sub(r.MarkInTime).Round(time.Minute).Hours()},
	})
	return r, nil
}

// Today reports the caller's state for the current day. An interval left
// open from an earlier day still counts as marked in so it can be closed.
func (s *Service) Today(ctx context.Context, actor access.Principal) (*Today, error) {
	date := s.DateOf(s.clock.Now())
	out := &Today{State: StateNotMarkedIn, Date: date}

	r, err := s.store.ForDate(ctx, actor.UserID, date)
	if err != nil {
		return nil, apperr.Internal(err, "load today's attendance")
	}
	if r == nil {
		if r, err = s.store.OpenFor(ctx, actor.UserID); err != nil {
			return nil, apperr.Internal(err, "load today's attendance")
		}
	}
	if r == nil {
		return out, nil
	}
	out.Record = r
	if r.Open() {
		out.State = StateMarkedIn
	} else {
		out.State = StateMarkedOut
	}
	return out, nil
}

func (s *Service) Mine(ctx context.Context, actor access.Principal, q Query) ([]View, error) {
	q.UserID = &actor.UserID
	return s.List(ctx, actor, q)
}

// List returns the records the caller may see: their own, their direct
// reports' for managers, everything for admins.
func (s *Service) List(ctx context.Context, actor access.Principal, q Query) ([]View, error) {
	if q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		return nil, apperr.Field("endDate", "must not be before startDate")
	}
	v, err := access.ResolveViewer(ctx, s.teams, actor)
	if err != nil {
		return nil, apperr.Internal(err, "resolve team")
	}
	out, err := s.store.List(ctx, v, q)
	if err != nil {
		return nil, apperr.Internal(err, "list attendance")
	}
	return out, nil
}

func classify(err error, op string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
