package crm

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	stage, err := validation.QueryEnum(c, "stage", string(StageLead), string(StageNegotiation), string(StageClosed))
	if err != nil {
		return Filter{}, err
	}
	assignedTo, err := validation.QueryUUID(c, "assignedTo")
	if err != nil {
		return Filter{}, err
	}
	return Filter{Stage: Stage(stage), AssignedTo: assignedTo}, nil
}

func (h *Handler) ListLeads(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	leads, err := h.service.ListLeads(c.UserContext(), f)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(leads)
}

func (h *Handler) GetLead(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	lead, err := h.service.GetLead(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(lead)
}

func (h *Handler) CreateLead(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateLeadRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	lead, err := h.service.CreateLead(c.UserContext(), p, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func (h *Handler) UpdateLead(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req UpdateLeadRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	lead, err := h.service.UpdateLead(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(lead)
}

func (h *Handler) DeleteLead(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.DeleteLead(c.UserContext(), p, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListDeals(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	deals, err := h.service.ListDeals(c.UserContext(), f)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(deals)
}

func (h *Handler) GetDeal(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	deal, err := h.service.GetDeal(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(deal)
}

func (h *Handler) CreateDeal(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateDealRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	deal, err := h.service.CreateDeal(c.UserContext(), p, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(deal)
}

func (h *Handler) UpdateDeal(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req UpdateDealRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	deal, err := h.service.UpdateDeal(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(deal)
}

func (h *Handler) DeleteDeal(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.DeleteDeal(c.UserContext(), p, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
