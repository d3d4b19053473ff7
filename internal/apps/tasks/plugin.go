package tasks

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

func (m *Module) ID() string { return "tasks" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	Mount(router, NewHandler(NewService(NewGormStore(deps.DB), deps.Clock, deps.Activity)))
}

func Mount(router fiber.Router, handler *Handler) {
	op := func(a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(access.ResourceTask, a))
	}

	router.Get("/tasks", op(access.ActionRead), handler.List)
	router.Post("/tasks", op(access.ActionCreate), handler.Create)
	router.Get("/tasks/:id", op(access.ActionRead), handler.Get)
	router.Patch("/tasks/:id", op(access.ActionUpdate), handler.Update)
	router.Delete("/tasks/:id", op(access.ActionDelete), handler.Delete)
}
