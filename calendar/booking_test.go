package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/schedule"
)

func TestBookingPicker_ProposeCleanInterval(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	api := &fakeClient{provider: []models.TimeSlot{
		{ID: "p1", Start: at(day, 9, 0), End: at(day, 10, 0), IsBooked: true},
	}}
	p := NewBookingPicker(api, "prov-1", "req-1", 30*time.Minute, zap.NewNop())
	if err := p.LoadWindow(context.Background(), day, day.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	booked, err := p.Propose(context.Background(), at(day, 10, 0), at(day, 10, 20))
	if err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if !booked.End.Equal(at(day, 10, 30)) {
		t.Fatalf("proposal must be normalized to the minimum duration, got end %s", booked.End)
	}
	if booked.RequestID != "req-1" || !booked.IsBooked {
		t.Fatal("proposal must be recorded as a rebooking against the request")
	}
	if len(api.rebooked) != 1 {
		t.Fatalf("expected one rebooking call, got %d", len(api.rebooked))
	}
}

func TestBookingPicker_ClashAgainstProviderSlots(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	api := &fakeClient{provider: []models.TimeSlot{
		{ID: "p1", Start: at(day, 9, 0), End: at(day, 10, 0), IsBooked: true},
	}}
	p := NewBookingPicker(api, "prov-1", "req-1", 30*time.Minute, zap.NewNop())
	if err := p.LoadWindow(context.Background(), day, day.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err := p.Propose(context.Background(), at(day, 9, 30), at(day, 10, 30))
	if !errors.Is(err, schedule.ErrClash) {
		t.Fatalf("expected ErrClash against the provider's calendar, got %v", err)
	}
	if len(api.rebooked) != 0 {
		t.Fatal("a clash must not record a rebooking")
	}
}

func TestBookingPicker_OwnRequestSlotExcludedFromConflicts(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	api := &fakeClient{provider: []models.TimeSlot{
		{ID: "p1", Start: at(day, 9, 0), End: at(day, 10, 0), IsBooked: true, RequestID: "req-1"},
	}}
	p := NewBookingPicker(api, "prov-1", "req-1", 30*time.Minute, zap.NewNop())
	if err := p.LoadWindow(context.Background(), day, day.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// Moving the booking to overlap its own current slot is allowed.
	if _, err := p.Propose(context.Background(), at(day, 9, 30), at(day, 10, 30)); err != nil {
		t.Fatalf("rescheduling over the request's own slot must not clash: %v", err)
	}
}
