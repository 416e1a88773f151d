package schedule

import (
	"errors"
	"time"

	"slotwise/models"
)

// ErrClash is returned when a candidate interval overlaps an existing slot or
// its transit padding. Recoverable: the caller re-selects a different range.
var ErrClash = errors.New("schedule: interval clashes with an existing slot")

// IsClashing reports whether the candidate interval [start, end) overlaps any
// of the existing slots. The candidate end is normalized to the minimum slot
// duration first, so a slot that would only conflict after extension is still
// rejected. Booked slots with transit padding block their full padded range.
// Touching boundaries are not a conflict; comparison is strict on both bounds.
// Returns on the first conflict found.
func IsClashing(start, end time.Time, existing []models.TimeSlot, minDuration time.Duration) bool {
	start, end = Normalize(start, end, minDuration)
	for _, slot := range existing {
		blockStart, blockEnd := slot.BlockingRange()
		if start.Before(blockEnd) && end.After(blockStart) {
			return true
		}
	}
	return false
}

// FirstClash returns the first existing slot the candidate interval overlaps,
// or nil when the interval is clean. Same predicate as IsClashing.
func FirstClash(start, end time.Time, existing []models.TimeSlot, minDuration time.Duration) *models.TimeSlot {
	start, end = Normalize(start, end, minDuration)
	for i := range existing {
		blockStart, blockEnd := existing[i].BlockingRange()
		if start.Before(blockEnd) && end.After(blockStart) {
			return &existing[i]
		}
	}
	return nil
}
