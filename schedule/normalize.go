// Package schedule holds the pure interval logic behind the availability
// calendar: minimum-duration normalization and conflict detection against
// existing, possibly transit-padded slots.
package schedule

import "time"

// Normalize enforces the minimum slot duration on a candidate interval. When
// end-start falls short of minDuration, end is extended to start+minDuration;
// start is never altered. Idempotent.
func Normalize(start, end time.Time, minDuration time.Duration) (time.Time, time.Time) {
	if end.Sub(start) < minDuration {
		end = start.Add(minDuration)
	}
	return start, end
}
