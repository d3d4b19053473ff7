package access

import (
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalRoundTripsThroughLocals(t *testing.T) {
	want := Principal{UserID: uuid.New(), Email: "jane@example.com", Role: models.RoleEmployee}

	app := fiber.New()
	app.Get("/with", func(c *fiber.Ctx) error {
		SetPrincipal(c, want)
		got, err := GetPrincipal(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/without", func(c *fiber.Ctx) error {
		_, err := GetPrincipal(c)
		assert.Error(t, err)
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, path := range []string{"/with", "/without"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}
