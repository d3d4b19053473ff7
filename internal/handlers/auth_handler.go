package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return apperr.Respond(c, err)
	}

	h.setSessionCookie(c, resp.Token, resp.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return apperr.Respond(c, err)
	}

	h.setSessionCookie(c, resp.Token, resp.ExpiresAt)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.authService.Logout(c.UserContext(), p); err != nil {
		return apperr.Respond(c, err)
	}

	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	user, err := h.authService.CurrentUser(c.UserContext(), p)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := access.GetPrincipal(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := validation.ParseBody(c, &req); err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.authService.ChangePassword(c.UserContext(), p, &req); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}

// DevUsers is only routed in development.
func (h *AuthHandler) DevUsers(c *fiber.Ctx) error {
	users, err := h.authService.DevUsers(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(users)
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
