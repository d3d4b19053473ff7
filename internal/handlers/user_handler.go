package handlers

import (
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Directory(c *fiber.Ctx) error {
	entries, err := h.userService.Directory(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(entries)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Respond(c, apperr.Field("id", "must be a valid id"))
	}
	var req dto.UpdateUserRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}

	user, err := h.userService.Update(c.UserContext(), p, id, &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Respond(c, apperr.Field("id", "must be a valid id"))
	}
	if err := h.userService.Delete(c.UserContext(), p, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
