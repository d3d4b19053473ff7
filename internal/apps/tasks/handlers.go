package tasks

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

func (h *Handler) List(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	status, err := validation.QueryEnum(c, "status", string(StatusTodo), string(StatusInProgress), string(StatusDone))
	if err != nil {
		return apperr.Respond(c, err)
	}
	priority, err := validation.QueryEnum(c, "priority", string(PriorityLow), string(PriorityMedium), string(PriorityHigh))
	if err != nil {
		return apperr.Respond(c, err)
	}
	assignedTo, err := validation.QueryUUID(c, "assignedTo")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if c.QueryBool("mine") {
		assignedTo = &p.UserID
	}

	list, err := h.service.List(c.UserContext(), Filter{Status: Status(status), Priority: Priority(priority), AssignedTo: assignedTo})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.service.Create(c.UserContext(), p, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req UpdateRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.service.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.Delete(c.UserContext(), p, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
