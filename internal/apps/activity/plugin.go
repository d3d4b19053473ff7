package activity

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// Module serves the feed. The same Service is handed to the other modules
// as their apps.ActivityRecorder.
type Module struct {
	service *Service
}

func New(service *Service) *Module {
	return &Module{service: service}
}

func (m *Module) ID() string { return "activity" }

func (m *Module) RegisterRoutes(router fiber.Router, _ apps.Deps) {
	Mount(router, NewHandler(m.service))
}

func Mount(router fiber.Router, handler *Handler) {
	router.Get("/activities", middleware.RequireOperation(access.Op(access.ResourceActivity, access.ActionRead)), handler.List)
}
