package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inserted  []*Activity
	insertErr error
	lastLimit int
}

func (f *fakeStore) Insert(_ context.Context, a *Activity) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, a)
	return nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]FeedItem, error) {
	f.lastLimit = limit
	items := []FeedItem{}
	for i := len(f.inserted) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, FeedItem{Activity: *f.inserted[i], UserName: "Actor"})
	}
	return items, nil
}

var now = time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)

func TestRecord_StoresMetadataAndTimestamp(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, clock.NewManual(now))
	entity := uuid.New()

	svc.Record(context.Background(), apps.ActivityEntry{
		UserID: uuid.New(), Type: "lead_created", EntityType: "lead", EntityID: &entity,
		Description: "created lead", Metadata: map[string]any{"stage": "lead"},
	})

	require.Len(t, store.inserted, 1)
	a := store.inserted[0]
	assert.Equal(t, now, a.CreatedAt)
	assert.JSONEq(t, `{"stage":"lead"}`, string(a.Metadata))

	svc.Record(context.Background(), apps.ActivityEntry{UserID: uuid.New(), Type: "x", EntityType: "y"})
	assert.JSONEq(t, `{}`, string(store.inserted[1].Metadata))
}

func TestRecord_SwallowsStoreFailure(t *testing.T) {
	svc := NewService(&fakeStore{insertErr: errors.New("db down")}, clock.NewManual(now))
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), apps.ActivityEntry{UserID: uuid.New(), Type: "x", EntityType: "y"})
	})
}

func TestFeed_ClampsLimit(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, clock.NewManual(now))

	_, err := svc.Feed(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, store.lastLimit)

	_, err = svc.Feed(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, store.lastLimit)
}

func TestListHandler(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, clock.NewManual(now))
	for i := 0; i < 3; i++ {
		svc.Record(context.Background(), apps.ActivityEntry{UserID: uuid.New(), Type: "t", EntityType: "e"})
	}

	app := fiber.New()
	app.Get("/activities", NewHandler(svc).List)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/activities?limit=2", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []FeedItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 2)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/activities?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
