package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	db       HealthCheck
	sessions HealthCheck
	clock    clock.Clock
}

func NewHealthHandler(db, sessions HealthCheck, clk clock.Clock) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions, clock: clk}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Sessions:  "ok",
	}
	if err := h.db(ctx); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
	}
	if err := h.sessions(ctx); err != nil {
		resp.Status = "degraded"
		resp.Sessions = "unhealthy: " + err.Error()
	}

	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
