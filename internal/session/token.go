package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired session")

// Claims are what a session token asserts about its holder.
type Claims struct {
	SessionID string
	UserID    uuid.UUID
	Email     string
	Name      string
}

// Manager issues tokens for new sessions and resolves tokens back to live sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewManager(store Store, secret string, ttl time.Duration, clk clock.Clock) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, clock: clk}
}

func (m *Manager) Secret() []byte { return m.secret }

// Start writes a session record and returns a token pointing at it.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID, email, name string) (string, Session, error) {
	now := m.clock.Now()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", Session{}, err
	}

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"sid":   s.ID,
		"email": email,
		"name":  name,
		"iat":   now.Unix(),
		"exp":   s.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, s, nil
}

// Resolve checks that the session behind claims still exists and belongs to the same user.
func (m *Manager) Resolve(ctx context.Context, c Claims) (*Session, error) {
	s, err := m.store.Get(ctx, c.SessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if s.UserID != c.UserID {
		return nil, ErrInvalidToken
	}
	return s, nil
}

func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// EndAll revokes every session of a user.
func (m *Manager) EndAll(ctx context.Context, userID uuid.UUID) error {
	return m.store.DeleteUser(ctx, userID)
}

// Parse verifies a raw token. Requests normally go through the JWT middleware
// instead; this serves tooling and tests.
func (m *Manager) Parse(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.clock.Now))
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return ClaimsFromToken(tok)
}

// ClaimsFromToken reads the claims the JWT middleware placed in the request.
func ClaimsFromToken(tok *jwt.Token) (Claims, error) {
	if tok == nil {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	sid, _ := mc["sid"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil || sid == "" {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mc["email"].(string)
	name, _ := mc["name"].(string)
	return Claims{SessionID: sid, UserID: userID, Email: email, Name: name}, nil
}
