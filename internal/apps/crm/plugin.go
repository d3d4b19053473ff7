package crm

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

func (m *Module) ID() string { return "crm" }

func (m *Module) RegisterRoutes(router fiber.Router, deps apps.Deps) {
	handler := NewHandler(NewService(NewGormStore(deps.DB), deps.Clock, deps.Activity))
	Mount(router, handler)
}

// Mount wires the lead and deal routes behind the role gate.
func Mount(router fiber.Router, handler *Handler) {
	gate := func(r access.Resource, a access.Action) fiber.Handler {
		return middleware.RequireOperation(access.Op(r, a))
	}

	router.Get("/leads", gate(access.ResourceLead, access.ActionRead), handler.ListLeads)
	router.Post("/leads", gate(access.ResourceLead, access.ActionCreate), handler.CreateLead)
	router.Get("/leads/:id", gate(access.ResourceLead, access.ActionRead), handler.GetLead)
	router.Patch("/leads/:id", gate(access.ResourceLead, access.ActionUpdate), handler.UpdateLead)
	router.Delete("/leads/:id", gate(access.ResourceLead, access.ActionDelete), handler.DeleteLead)

	router.Get("/deals", gate(access.ResourceDeal, access.ActionRead), handler.ListDeals)
	router.Post("/deals", gate(access.ResourceDeal, access.ActionCreate), handler.CreateDeal)
	router.Get("/deals/:id", gate(access.ResourceDeal, access.ActionRead), handler.GetDeal)
	router.Patch("/deals/:id", gate(access.ResourceDeal, access.ActionUpdate), handler.UpdateDeal)
	router.Delete("/deals/:id", gate(access.ResourceDeal, access.ActionDelete), handler.DeleteDeal)
}
