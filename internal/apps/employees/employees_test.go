package employees

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
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore knows a fixed set of users and enforces one employee per user.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]string
	employees map[uuid.UUID]Employee
}

func (f *fakeStore) view(e Employee) View {
	return View{Employee: e, Name: f.users[e.UserID], Email: f.users[e.UserID] + "@example.com", Role: "employee", UserStatus: "active"}
}

func (f *fakeStore) List(_ context.Context, department string) ([]View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []View{}
	for _, e := range f.employees {
		if department == "" || e.Department == department {
			out = append(out, f.view(e))
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := f.view(e)
	return &v, nil
}

func (f *fakeStore) Create(_ context.Context, e *Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[e.UserID]; !ok {
		return ErrUnknownUser
	}
	for _, existing := range f.employees {
		if existing.UserID == e.UserID {
			return ErrEmployeeExists
		}
	}
	f.employees[e.ID] = *e
	return nil
}

func (f *fakeStore) Save(_ context.Context, e *Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[e.ID] = *e
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.employees, id)
	return nil
}

type nopActivity struct{}

func (nopActivity) Record(context.Context, apps.ActivityEntry) {}

func setup(role models.Role, users map[uuid.UUID]string) *fiber.App {
	store := &fakeStore{users: users, employees: map[uuid.UUID]Employee{}}
	svc := NewService(store, clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), nopActivity{})
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		access.SetPrincipal(c, access.Principal{UserID: uuid.New(), Role: role, Name: "Admin"})
		return c.Next()
	})
	Mount(app, NewHandler(svc))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCreateEmployee(t *testing.T) {
	jane := uuid.New()
	app := setup(models.RoleAdmin, map[uuid.UUID]string{jane: "jane"})

	resp := send(t, app, http.MethodPost, "/employees", `{"userId":"`+jane.String()+`","department":"Sales","performanceScore":80}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var v View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Equal(t, "Sales", v.Department)
	assert.Equal(t, 80, v.PerformanceScore)
	assert.Equal(t, "jane", v.Name)

	resp = send(t, app, http.MethodPost, "/employees", `{"userId":"`+jane.String()+`","department":"Ops"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "EMPLOYEE_EXISTS", body.Code)

	resp = send(t, app, http.MethodPost, "/employees", `{"userId":"`+uuid.NewString()+`","department":"Ops"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send(t, app, http.MethodPost, "/employees", `{"userId":"`+jane.String()+`","department":"Ops","performanceScore":101}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEmployeeWritesAreAdminOnly(t *testing.T) {
	app := setup(models.RoleManager, map[uuid.UUID]string{})

	assert.Equal(t, http.StatusOK, send(t, app, http.MethodGet, "/employees", "").StatusCode)
	assert.Equal(t, http.StatusForbidden, send(t, app, http.MethodPost, "/employees", `{}`).StatusCode)
	assert.Equal(t, http.StatusForbidden, send(t, app, http.MethodDelete, "/employees/"+uuid.NewString(), "").StatusCode)
}

func TestUpdateEmployee(t *testing.T) {
	u := uuid.New()
	store := &fakeStore{users: map[uuid.UUID]string{u: "sam"}, employees: map[uuid.UUID]Employee{}}
	svc := NewService(store, clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), nopActivity{})
	ctx := context.Background()
	actor := access.Principal{UserID: uuid.New(), Role: models.RoleAdmin}

	phone := "555-0100"
	created, err := svc.Create(ctx, actor, &CreateRequest{UserID: u, Department: "Sales", Phone: &phone})
	require.NoError(t, err)

	score := 55
	updated, err := svc.Update(ctx, actor, created.ID, &UpdateRequest{PerformanceScore: &score, Phone: dto.Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, 55, updated.PerformanceScore)
	assert.Nil(t, updated.Phone)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = svc.Update(ctx, actor, uuid.New(), &UpdateRequest{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
