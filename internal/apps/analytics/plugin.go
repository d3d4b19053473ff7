package analytics

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) ID() string { return "analytics" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	Mount(router, NewHandler(NewService(NewGormStore(deps.DB))))
}

func Mount(router fiber.Router, handler *Handler) {
	router.Get("/analytics/dashboard",
		middleware.RequireOperation(access.Op(access.ResourceAnalytics, access.ActionRead)),
		handler.Dashboard)
}
