package session

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-test-secret-test-secret"

func newManager(t *testing.T) (*Manager, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewManager(NewMemoryStore(clk), secret, time.Hour, clk), clk
}

func TestManager_StartResolveEnd(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	userID := uuid.New()

	token, s, err := m.Start(ctx, userID, "jane@example.com", "Jane Smith")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, s.ID, claims.SessionID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Smith", claims.Name)

	got, err := m.Resolve(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)

	require.NoError(t, m.End(ctx, s.ID))
	_, err = m.Resolve(ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ExpiredSessionIsGone(t *testing.T) {
	ctx := context.Background()
	m, clk := newManager(t)

	token, _, err := m.Start(ctx, uuid.New(), "a@example.com", "A")
	require.NoError(t, err)
	claims, err := m.Parse(token)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Resolve(ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsForeignSignatureAndMismatchedUser(t *testing.T) {
	ctx := context.Background()
	m, clk := newManager(t)
	other := NewManager(NewMemoryStore(clk), "another-secret-another-secret-12345", time.Hour, clk)

	foreign, _, err := other.Start(ctx, uuid.New(), "x@example.com", "X")
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, _, err := m.Start(ctx, uuid.New(), "y@example.com", "Y")
	require.NoError(t, err)
	claims, err := m.Parse(token)
	require.NoError(t, err)
	claims.UserID = uuid.New()
	_, err = m.Resolve(ctx, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_EndAllRevokesEverySessionOfUser(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	userID := uuid.New()
	otherID := uuid.New()

	t1, _, _ := m.Start(ctx, userID, "u@example.com", "U")
	t2, _, _ := m.Start(ctx, userID, "u@example.com", "U")
	t3, _, _ := m.Start(ctx, otherID, "o@example.com", "O")

	require.NoError(t, m.EndAll(ctx, userID))

	for _, tok := range []string{t1, t2} {
		c, err := m.Parse(tok)
		require.NoError(t, err)
		_, err = m.Resolve(ctx, c)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
	c, err := m.Parse(t3)
	require.NoError(t, err)
	_, err = m.Resolve(ctx, c)
	assert.NoError(t, err)
}
