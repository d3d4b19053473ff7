package attendance

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

func (h *Handler) MarkIn(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	r, err := h.service.MarkIn(c.UserContext(), p)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *Handler) MarkOut(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := validation.ParamUUID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req MarkOutRequest
	if len(c.Body()) > 0 {
		if err := validation.ParseBody(c, &req); err != nil {
			return apperr.Respond(c, err)
		}
	}
	r, err := h.service.MarkOut(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(r)
}

func (h *Handler) Today(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	t, err := h.service.Today(c.UserContext(), p)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(t)
}

func (h *Handler) Mine(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	q, err := parseQuery(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	list, err := h.service.Mine(c.UserContext(), p, q)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) List(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	q, err := parseQuery(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if q.UserID, err = validation.QueryUUID(c, "userId"); err != nil {
		return apperr.Respond(c, err)
	}
	list, err := h.service.List(c.UserContext(), p, q)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

func parseQuery(c *fiber.Ctx) (Query, error) {
	var q Query
	start, err := validation.QueryDate(c, "startDate")
	if err != nil {
		return q, err
	}
	end, err := validation.QueryDate(c, "endDate")
	if err != nil {
		return q, err
	}
	if start != nil {
		q.StartDate = start.Format(validation.DateLayout)
	}
	if end != nil {
		q.EndDate = end.Format(validation.DateLayout)
	}
	return q, nil
}
