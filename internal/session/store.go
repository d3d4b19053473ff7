// Package session keeps server-side session records and the signed tokens
// that point at them.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CookieName is the httpOnly cookie carrying the session token.
const CookieName = "teamdesk_session"

var ErrNotFound = errors.New("session not found")

// Session is the server-side record behind a token. Deleting it revokes the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store persists sessions. Unlike a cache, failures are returned so that
// callers fail closed.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	Ping(ctx context.Context) error
}
