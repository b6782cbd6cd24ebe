// Package elapsed formats how long an activity has been running.
package elapsed

import (
	"fmt"
	"math"
	"time"
)

// Zero is returned for durations that cannot be shown (negative, NaN, infinite).
const Zero = "0min."

const msPerMinute = 60_000

// FormatMillis formats a duration given in milliseconds as "1hr. 05min." or
// "42min.". Invalid input yields Zero.
func FormatMillis(ms float64) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return Zero
	}

	// Values past the int64 range saturate instead of wrapping negative.
	var minutes int64 = math.MaxInt64
	if m := math.Floor(ms / msPerMinute); m < float64(math.MaxInt64) {
		minutes = int64(m)
	}
	hours := minutes / 60
	rem := minutes % 60

	if hours > 0 {
		unit := "hr"
		if hours > 1 {
			unit = "hrs"
		}
		return fmt.Sprintf("%d%s. %02dmin.", hours, unit, rem)
	}

	return fmt.Sprintf("%dmin.", minutes)
}

// Format formats d using FormatMillis.
func Format(d time.Duration) string {
	return FormatMillis(float64(d.Milliseconds()))
}

// Since formats the time between start and now. Both instants come from the
// caller so output is deterministic.
func Since(start, now time.Time) string {
	return FormatMillis(float64(now.UnixMilli() - start.UnixMilli()))
}
