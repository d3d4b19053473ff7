package activity

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

// Record implements apps.ActivityRecorder. A failed insert is logged and dropped.
func (s *Service) Record(ctx context.Context, e apps.ActivityEntry) {
	meta := datatypes.JSON("{}")
	if len(e.Metadata) > 0 {
		if b, err := json.Marshal(e.Metadata); err == nil {
			meta = b
		}
	}

	a := &Activity{
		ID:           uuid.New(),
		UserID:       e.UserID,
		ActivityType: e.Type,
		EntityType:   e.EntityType,
		EntityID:     e.EntityID,
		TargetUserID: e.TargetUserID,
		Description:  e.Description,
		Metadata:     meta,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.store.Insert(ctx, a); err != nil {
		slog.WarnContext(ctx, "failed to record activity",
			"error", err.Error(), "user_id", e.UserID.String(), "action", e.Type)
	}
}

// Feed returns the newest activities first. limit is clamped to 1..MaxLimit.
func (s *Service) Feed(ctx context.Context, limit int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	items, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperr.Internal(err, "load activity feed")
	}
	return items, nil
}
