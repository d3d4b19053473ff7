package access

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// SetPrincipal stores the authenticated principal on the request.
func SetPrincipal(c *fiber.Ctx, p Principal) {
	c.Locals(principalKey, p)
}

// GetPrincipal extracts the principal placed by the session middleware.
func GetPrincipal(c *fiber.Ctx) (Principal, error) {
	p, ok := c.Locals(principalKey).(Principal)
	if !ok {
		return Principal{}, apperr.Unauthenticated("Unauthorized")
	}
	return p, nil
}
