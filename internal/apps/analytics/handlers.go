package analytics

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	d, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(d)
}
