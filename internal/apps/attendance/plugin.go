package attendance

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

func (m *Module) ID() string { return "attendance" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	svc := NewService(NewGormStore(deps.DB), deps.Teams, deps.Clock, deps.Config.AttendanceLocation(), deps.Activity)
	Mount(router, NewHandler(svc))
}

func Mount(router fiber.Router, handler *Handler) {
	mark := middleware.RequireOperation(access.Op(access.ResourceAttendance, access.ActionMark))
	read := middleware.RequireOperation(access.Op(access.ResourceAttendance, access.ActionRead))

	g := router.Group("/attendance")
	g.Post("/mark-in", mark, handler.MarkIn)
	g.Patch("/:id/mark-out", mark, handler.MarkOut)
	g.Get("/today", read, handler.Today)
	g.Get("/my", read, handler.Mine)
	router.Get("/attendance", read, handler.List)
}
