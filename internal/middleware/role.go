package middleware

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// RequireOperation applies the role gate for op. It must run after Authenticated.
func RequireOperation(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := access.GetPrincipal(c)
		if err != nil {
			return apperr.Respond(c, err)
		}
		if err := access.Check(p, op); err != nil {
			return apperr.Respond(c, err)
		}
		return c.Next()
	}
}
