package activity

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return apperr.Respond(c, apperr.Field("limit", "must be a number"))
	}
	items, err := h.service.Feed(c.UserContext(), limit)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(items)
}
