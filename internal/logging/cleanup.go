package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/clock"
	"github.com/ahmetcoskunkizilkaya/teamdesk/internal/models"
	"gorm.io/gorm"
)

const (
	defaultRetentionDays = 30
	cleanupInterval      = 24 * time.Hour
)

// RetentionCutoff is the oldest system log timestamp kept for the given retention.
func RetentionCutoff(now time.Time, retentionDays int) time.Time {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return now.AddDate(0, 0, -retentionDays)
}

// PurgeBefore deletes system logs written before cutoff and reports how many went.
func PurgeBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}

// StartCleanup purges expired system logs once at startup and then daily
// until ctx is cancelled.
func StartCleanup(ctx context.Context, db *gorm.DB, clk clock.Clock, retentionDays int) {
	purge := func() {
		cutoff := RetentionCutoff(clk.Now(), retentionDays)
		n, err := PurgeBefore(ctx, db, cutoff)
		switch {
		case err != nil && ctx.Err() == nil:
			slog.Error("system log cleanup failed", "error", err)
		case n > 0:
			slog.Info("system log cleanup completed", "deleted", n, "cutoff", cutoff)
		}
	}

	go func() {
		purge()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-ctx.Done():
				return
			}
		}
	}()
}
