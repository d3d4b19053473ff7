package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/activity"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/analytics"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/attendance"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/crm"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/employees"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/social"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps/tasks"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/routes"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(slog.LevelInfo, false)
		slog.Error("configuration rejected", "error", err)
		os.Exit(1)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	logging.Setup(level, cfg.IsDevelopment())
	for _, w := range cfg.Warnings() {
		slog.Warn(w)
	}

	// Schema first, then the pool
	if err := database.MigrateUp(cfg.DatabaseURL); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log sink (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(os.Stdout, level, cfg.IsDevelopment()),
		pgLogHandler,
	)))

	clk := clock.System()

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	logging.StartCleanup(cleanupCtx, db, clk, cfg.LogRetentionDays)

	// Sessions
	var (
		sessionStore session.Store
		redisStore   *session.RedisStore
	)
	if cfg.RedisURL != "" {
		redisStore, err = session.NewRedisStore(cfg.RedisURL, clk)
		if err != nil {
			slog.Error("redis session store failed", "error", err)
			os.Exit(1)
		}
		if err := redisStore.Ping(context.Background()); err != nil {
			slog.Error("redis unreachable", "error", err)
			os.Exit(1)
		}
		sessionStore = redisStore
	} else {
		sessionStore = session.NewMemoryStore(clk)
	}
	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL, clk)

	// Services
	users := services.NewGormUserStore(db)
	activityService := activity.NewService(activity.NewGormStore(db), clk)
	authService := services.NewAuthService(users, sessions, cfg, clk)
	userService := services.NewUserService(users, sessions, clk, activityService)

	deps := apps.Deps{
		DB:       db,
		Config:   cfg,
		Clock:    clk,
		Teams:    access.NewGormTeamResolver(db),
		Activity: activityService,
	}
	modules := []apps.Module{
		crm.New(),
		employees.New(),
		tasks.New(),
		attendance.New(),
		social.New(),
		analytics.New(),
		activity.New(activityService),
	}

	// Handlers
	h := routes.Handlers{
		Auth:  handlers.NewAuthHandler(authService, cfg),
		Users: handlers.NewUserHandler(userService),
		Health: handlers.NewHealthHandler(
			func(ctx context.Context) error { return database.Ping(ctx, db) },
			sessionStore.Ping,
			clk,
		),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "teamdesk",
		BodyLimit:    1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(compress.New())
	app.Use(middleware.CORS(cfg))

	if _, err := os.Stat(cfg.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "TeamDesk API",
		}))
	} else {
		slog.Info("swagger file not found, /docs disabled", "path", cfg.SwaggerFile)
	}

	routes.Setup(app, cfg, sessions, users, h, modules, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	stopCleanup()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// customErrorHandler covers errors that escape handlers, such as unknown
// routes and body limit violations.
func customErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if fe.Code == fiber.StatusNotFound {
			return apperr.Respond(c, apperr.New(apperr.KindNotFound, "NOT_FOUND", fe.Message))
		}
		return apperr.Respond(c, apperr.New(apperr.KindValidation, "BAD_REQUEST", fe.Message))
	}
	return apperr.Respond(c, err)
}
