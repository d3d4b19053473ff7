package clock

import "time"

// NextStamp returns now, or prev plus one microsecond when now is not after
// prev. Postgres keeps microseconds, so this keeps updatedAt strictly increasing.
func NextStamp(now, prev time.Time) time.Time {
	now = now.Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
