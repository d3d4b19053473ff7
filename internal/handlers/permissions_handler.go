package handlers

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// Permissions mirrors the role gate for client-side rendering hints. The
// server still checks every request.
func Permissions(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"role":        p.Role,
		"permissions": access.Permissions(p.Role),
	})
}
