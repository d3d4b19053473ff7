package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/google/uuid"
)

var ErrNotAssignee = apperr.Forbidden("Employees can only update tasks assigned to them")

type Service struct {
	store    Store
	clock    clock.Clock
	activity apps.ActivityRecorder
}

func NewService(store Store, clk clock.Clock, activity apps.ActivityRecorder) *Service {
	return &Service{store: store, clock: clk, activity: activity}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Task, error) {
	out, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err, "list tasks")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get task")
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, actor access.Principal, req *CreateRequest) (*Task, error) {
	now := s.clock.Now()
	t := &Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    PriorityMedium,
		Status:      StatusTodo,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Title == "" {
		return nil, apperr.Field("title", "is required")
	}
	if req.Priority != "" {
		t.Priority = Priority(req.Priority)
	}
	if req.Status != "" {
		t.Status = Status(req.Status)
	}
	t.Completed = req.Completed || t.Status == StatusDone
	if t.Completed {
		t.Status = StatusDone
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, classify(err, "create task")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:       actor.UserID,
		Type:         "task_created",
		EntityType:   "task",
		EntityID:     &t.ID,
		TargetUserID: t.AssignedTo,
		Description:  fmt.Sprintf("%s created task %s", actor.Name, t.Title),
		Metadata:     map[string]any{"priority": t.Priority},
	})
	return t, nil
}

// Update lets employees touch only tasks assigned to them. Status and the
// completed flag are kept in step: done means completed.
func (s *Service) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req *UpdateRequest) (*Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, classify(err, "get task")
	}
	if actor.Role == models.RoleEmployee && (t.AssignedTo == nil || *t.AssignedTo != actor.UserID) {
		return nil, ErrNotAssignee
	}
	wasCompleted := t.Completed

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
		if t.Title == "" {
			return nil, apperr.Field("title", "is required")
		}
	}
	if req.Description.Set {
		t.Description = req.Description.Ptr()
	}
	if req.Priority != nil {
		t.Priority = Priority(*req.Priority)
	}
	if req.AssignedTo.Set {
		t.AssignedTo = req.AssignedTo.Ptr()
	}
	if req.DueDate.Set {
		t.DueDate = req.DueDate.Ptr()
	}
	switch {
	case req.Status != nil:
		t.Status = Status(*req.Status)
		t.Completed = t.Status == StatusDone
		if req.Completed != nil && *req.Completed != t.Completed {
			return nil, apperr.Field("completed", "conflicts with status")
		}
	case req.Completed != nil:
		t.Completed = *req.Completed
		if t.Completed {
			t.Status = StatusDone
		} else if t.Status == StatusDone {
			t.Status = StatusTodo
		}
	}
	t.UpdatedAt = clock.NextStamp(s.clock.Now(), t.UpdatedAt)

	if err := s.store.Save(ctx, t); err != nil {
		return nil, classify(err, "update task")
	}
	if t.Completed && !wasCompleted {
		s.activity.Record(ctx, apps.ActivityEntry{
			UserID:       actor.UserID,
			Type:         "task_completed",
			EntityType:   "task",
			EntityID:     &t.ID,
			TargetUserID: t.AssignedTo,
			Description:  fmt.Sprintf("%s completed task %s", actor.Name, t.Title),
		})
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return classify(err, "get task")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return classify(err, "delete task")
	}
	s.activity.Record(ctx, apps.ActivityEntry{
		UserID:      actor.UserID,
		Type:        "task_deleted",
		EntityType:  "task",
		Description: fmt.Sprintf("%s deleted task %s", actor.Name, t.Title),
	})
	return nil
}

func classify(err error, op string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err, op)
}
