package routes

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Health *handlers.HealthHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions *session.Manager,
	users middleware.UserFinder,
	h Handlers,
	modules []apps.Module,
	deps apps.Deps,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP. Both limiters are off in development.
	api.Use(rateLimiter(cfg, cfg.RateLimitMax))

	api.Get("/health", h.Health.Check)

	// Public auth endpoints share a stricter limiter.
	authLimit := rateLimiter(cfg, cfg.AuthRateLimitMax)
	api.Post("/register", authLimit, h.Auth.Register)
	api.Post("/login", authLimit, h.Auth.Login)
	if cfg.IsDevelopment() {
		api.Get("/dev/users", h.Auth.DevUsers)
	}

	// Everything below needs a live session. Public routes are registered
	// first and never call Next, so the session check does not reach them.
	protected := api.Group("", middleware.Authenticated(sessions, users))

	protected.Post("/logout", h.Auth.Logout)
	protected.Get("/user", h.Auth.CurrentUser)
	protected.Get("/auth/user", h.Auth.CurrentUser)
	protected.Post("/change-password", h.Auth.ChangePassword)
	protected.Get("/permissions", handlers.Permissions)

	user := func(a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(access.ResourceUser, a))
	}
	protected.Get("/users", user(access.ActionDirectory), h.Users.Directory)
	protected.Get("/admin/users", user(access.ActionList), h.Users.List)
	protected.Patch("/admin/users/:id", user(access.ActionUpdate), h.Users.Update)
	protected.Delete("/admin/users/:id", user(access.ActionDelete), h.Users.Delete)

	for _, m := range modules {
		m.RegisterRoutes(protected, deps)
		slog.Debug("module routes registered", "module", m.ID())
	}
}

func rateLimiter(cfg *config.Config, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Next:              func(*fiber.Ctx) bool { return cfg.IsDevelopment() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Too many requests, please try again later",
				Code:    "RATE_LIMITED",
			})
		},
	})
}
