package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noUsers struct{}

func (noUsers) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, services.ErrUserNotFound
}

type pingModule struct{ registered bool }

func (m *pingModule) ID() string { return "ping" }

func (m *pingModule) RegisterRoutes(router fiber.Router, _ apps.Deps) {
	m.registered = true
	router.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
}

func setup(t *testing.T, env string) (*fiber.App, *pingModule) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := &config.Config{
		Env:              env,
		RateLimitWindow:  time.Minute,
		RateLimitMax:     100,
		AuthRateLimitMax: 2,
	}
	store := session.NewMemoryStore(clk)
	sessions := session.NewManager(store, "0123456789abcdef0123456789abcdef", time.Hour, clk)
	ok := func(context.Context) error { return nil }

	h := Handlers{
		Auth:   handlers.NewAuthHandler(services.NewAuthService(nil, sessions, cfg, clk), cfg),
		Users:  handlers.NewUserHandler(nil),
		Health: handlers.NewHealthHandler(ok, ok, clk),
	}
	mod := &pingModule{}
	app := fiber.New()
	Setup(app, cfg, sessions, noUsers{}, h, []apps.Module{mod}, apps.Deps{Config: cfg, Clock: clk})
	return app, mod
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	app, mod := setup(t, config.EnvTest)
	assert.True(t, mod.registered)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/api/ping", "/api/user", "/api/auth/user", "/api/users", "/api/permissions"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dev/users", nil))
	require.NoError(t, err)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRateLimit(t *testing.T) {
	app, _ := setup(t, config.EnvTest)
	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimitOffInDevelopment(t *testing.T) {
	app, _ := setup(t, config.EnvDevelopment)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
	}
}
