package schedule

import (
	"testing"
	"time"

	"slotwise/models"
)

func at(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestIsClashing_TouchingBoundariesDoNotClash(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []models.TimeSlot{{Start: at(day, 10, 0), End: at(day, 11, 0)}}

	if IsClashing(at(day, 11, 0), at(day, 12, 0), existing, 30*time.Minute) {
		t.Fatal("candidate starting exactly at existing end must not clash")
	}
	if IsClashing(at(day, 9, 0), at(day, 10, 0), existing, 30*time.Minute) {
		t.Fatal("candidate ending exactly at existing start must not clash")
	}
}

func TestIsClashing_OverlapByOneMinute(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []models.TimeSlot{{Start: at(day, 10, 0), End: at(day, 11, 0)}}

	if !IsClashing(at(day, 10, 59), at(day, 11, 30), existing, 30*time.Minute) {
		t.Fatal("one-minute overlap must clash")
	}
}

func TestIsClashing_NormalizesCandidateBeforeComparing(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []models.TimeSlot{{Start: at(day, 10, 15), End: at(day, 11, 0)}}

	// Raw candidate [10:00, 10:10) does not touch the existing slot, but the
	// 30-minute minimum extends it to [10:00, 10:30), which does.
	if !IsClashing(at(day, 10, 0), at(day, 10, 10), existing, 30*time.Minute) {
		t.Fatal("candidate must clash after minimum-duration extension")
	}
}

func TestIsClashing_TransitPaddingBlocksFullRange(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	transitStart := at(day, 13, 45)
	transitEnd := at(day, 14, 20)
	existing := []models.TimeSlot{{
		Start:        at(day, 14, 0),
		End:          at(day, 14, 10),
		TransitStart: &transitStart,
		TransitEnd:   &transitEnd,
		IsBooked:     true,
	}}

	// [14:10, 14:30) clears the core interval but lands inside the padding.
	if !IsClashing(at(day, 14, 10), at(day, 14, 30), existing, 30*time.Minute) {
		t.Fatal("candidate inside transit padding must clash")
	}
	// [14:20, 14:50) starts exactly at the padded end: clean.
	if IsClashing(at(day, 14, 20), at(day, 14, 50), existing, 30*time.Minute) {
		t.Fatal("candidate starting at transit end must not clash")
	}
}

func TestIsClashing_ShortCircuitsOnFirstConflict(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	existing := []models.TimeSlot{
		{ID: "a", Start: at(day, 10, 0), End: at(day, 11, 0)},
		{ID: "b", Start: at(day, 10, 30), End: at(day, 11, 30)},
	}

	hit := FirstClash(at(day, 10, 30), at(day, 11, 0), existing, 30*time.Minute)
	if hit == nil {
		t.Fatal("expected a clash")
	}
	if hit.ID != "a" {
		t.Fatalf("expected first conflicting slot a, got %s", hit.ID)
	}
}

func TestIsClashing_EmptyExisting(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if IsClashing(at(day, 10, 0), at(day, 11, 0), nil, 30*time.Minute) {
		t.Fatal("no existing slots, nothing to clash with")
	}
}
