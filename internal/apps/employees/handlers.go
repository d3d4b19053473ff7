package employees

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
	list, err := h.service.List(c.UserContext(), c.Query("department"))
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
	v, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(v)
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
	v, err := h.service.Create(c.UserContext(), p, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(v)
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
	v, err := h.service.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(v)
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
