package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]Task
}

func (f *fakeStore) List(_ context.Context, flt Filter) ([]Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Task{}
	for _, t := range f.tasks {
		if flt.Status != "" && t.Status != flt.Status {
			continue
		}
		if flt.Priority != "" && t.Priority != flt.Priority {
			continue
		}
		if flt.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *flt.AssignedTo) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) Create(_ context.Context, t *Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeStore) Save(_ context.Context, t *Task) error { return f.Create(context.Background(), t) }

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, id)
	return nil
}

type nopActivity struct{}

func (nopActivity) Record(context.Context, apps.ActivityEntry) {}

func newService() (*Service, *fakeStore) {
	store := &fakeStore{tasks: map[uuid.UUID]Task{}}
	return NewService(store, clock.NewManual(time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)), nopActivity{}), store
}

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	svc, _ := newService()
	task, err := svc.Create(context.Background(), access.Principal{UserID: uuid.New()}, &CreateRequest{Title: "Call back"})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, StatusTodo, task.Status)
	assert.False(t, task.Completed)
}

func TestEmployeeMayOnlyUpdateOwnTasks(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	alice := access.Principal{UserID: uuid.New(), Role: models.RoleEmployee}
	bob := access.Principal{UserID: uuid.New(), Role: models.RoleEmployee}
	mgr := access.Principal{UserID: uuid.New(), Role: models.RoleManager}

	task, err := svc.Create(ctx, mgr, &CreateRequest{Title: "Prepare deck", AssignedTo: &alice.UserID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, task.ID, &UpdateRequest{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotAssignee)

	updated, err := svc.Update(ctx, alice, task.ID, &UpdateRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, StatusDone, updated.Status)

	updated, err = svc.Update(ctx, mgr, task.ID, &UpdateRequest{Status: strPtr("in-progress")})
	require.NoError(t, err)
	assert.False(t, updated.Completed)

	_, err = svc.Update(ctx, mgr, task.ID, &UpdateRequest{Status: strPtr("todo"), Completed: boolPtr(true)})
	assert.Error(t, err)
}

func TestListMine(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	me := uuid.New()
	other := uuid.New()
	_, _ = svc.Create(ctx, access.Principal{}, &CreateRequest{Title: "mine", AssignedTo: &me})
	_, _ = svc.Create(ctx, access.Principal{}, &CreateRequest{Title: "theirs", AssignedTo: &other, Priority: "high"})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		access.SetPrincipal(c, access.Principal{UserID: me, Role: models.RoleEmployee})
		return c.Next()
	})
	Mount(app, NewHandler(svc))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tasks?mine=true", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tasks?priority=high", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "theirs", list[0].Title)

	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+list[0].ID.String(), strings.NewReader(""))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
