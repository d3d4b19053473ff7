package employees

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

func (m *Module) ID() string { return "employees" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	Mount(router, NewHandler(NewService(NewGormStore(deps.DB), deps.Clock, deps.Activity)))
}

func Mount(router fiber.Router, handler *Handler) {
	op := func(a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(access.ResourceEmployee, a))
	}

	router.Get("/employees", op(access.ActionRead), handler.List)
	router.Post("/employees", op(access.ActionCreate), handler.Create)
	router.Get("/employees/:id", op(access.ActionRead), handler.Get)
	router.Patch("/employees/:id", op(access.ActionUpdate), handler.Update)
	router.Delete("/employees/:id", op(access.ActionDelete), handler.Delete)
}
