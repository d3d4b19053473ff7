package apperr

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Respond writes err as a JSON error body. Internal errors are logged with
// their cause and replaced by a generic message.
func Respond(c *fiber.Ctx, err error) error {
	e, ok := As(err)
	if !ok {
		e = Internal(err, "unexpected error")
	}

	status := HTTPStatus(e.Kind)
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), e.Message,
			"error", err.Error(),
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
		)
		return c.Status(status).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Internal server error",
			Code:    e.Code,
		})
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: e.Message,
		Code:    e.Code,
		Fields:  e.Fields,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
