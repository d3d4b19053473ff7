package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/access"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenKey = "session_token"

// UserFinder re-reads the user behind a session on every request so that
// role and status changes apply immediately.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticated accepts the session token from the cookie or a Bearer header,
// checks that its server-side session still exists, and loads the principal.
func Authenticated(sessions *session.Manager, users UserFinder) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: sessions.Secret()},
		ContextKey:  tokenKey,
		TokenLookup: "header:Authorization,cookie:" + session.CookieName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Respond(c, apperr.Unauthenticated("Unauthorized: invalid or expired session"))
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenKey).(*jwt.Token)
			claims, err := session.ClaimsFromToken(token)
			if err != nil {
				return apperr.Respond(c, apperr.Unauthenticated("Unauthorized: invalid or expired session"))
			}

			ctx := c.UserContext()
			sess, err := sessions.Resolve(ctx, claims)
			if errors.Is(err, session.ErrInvalidToken) {
				return apperr.Respond(c, apperr.Unauthenticated("Unauthorized: invalid or expired session"))
			}
			if err != nil {
				return apperr.Respond(c, apperr.Internal(err, "resolve session"))
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					return apperr.Respond(c, apperr.Unauthenticated("Unauthorized: user no longer exists"))
				}
				return apperr.Respond(c, apperr.Internal(err, "load session user"))
			}
			if !user.IsActive() {
				slog.Warn("inactive user presented a session", "user_id", user.ID.String(), "request_id", c.Locals("requestid"))
				return apperr.Respond(c, apperr.New(apperr.KindUnauthenticated, "ACCOUNT_INACTIVE", "Account is inactive"))
			}

			access.SetPrincipal(c, access.Principal{
				UserID:    user.ID,
				Email:     user.Email,
				Name:      user.DisplayName(),
				Role:      user.Role,
				SessionID: sess.ID,
			})
			return c.Next()
		},
	})
}
