package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/schedule"
)

// BookingPicker is the booking-mode specialization of the calendar: a consumer
// picks a replacement time for an existing service request instead of a
// provider declaring open availability. Same normalization and clash logic,
// but the conflict universe is the provider's slots and a clean selection
// produces a rebooking against the request rather than a freestanding slot.
type BookingPicker struct {
	api         Client
	providerID  string
	requestID   string
	minDuration time.Duration
	log         *zap.Logger

	slots []models.TimeSlot
}

// NewBookingPicker builds a picker for rescheduling the given request against
// the given provider's calendar.
func NewBookingPicker(api Client, providerID, requestID string, minDuration time.Duration, log *zap.Logger) *BookingPicker {
	return &BookingPicker{
		api:         api,
		providerID:  providerID,
		requestID:   requestID,
		minDuration: minDuration,
		log:         log,
	}
}

// LoadWindow fetches the provider's slots for the visible range. The picker
// holds a read-only view; it never mutates the provider's calendar directly.
func (p *BookingPicker) LoadWindow(ctx context.Context, start, end time.Time) error {
	slots, err := p.api.ProviderSlots(ctx, p.providerID, start, end)
	if err != nil {
		p.log.Error("provider window fetch failed", zap.String("providerId", p.providerID), zap.Error(err))
		return err
	}
	p.slots = slots
	return nil
}

// Slots returns the provider's slots currently loaded.
func (p *BookingPicker) Slots() []models.TimeSlot {
	out := make([]models.TimeSlot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Propose normalizes the selected interval, checks it against the provider's
// existing obligations and, when clean, records a rebooking of the request at
// the new time. A clash returns schedule.ErrClash with no side effects.
func (p *BookingPicker) Propose(ctx context.Context, start, end time.Time) (models.TimeSlot, error) {
	start, end = schedule.Normalize(start, end, p.minDuration)
	if schedule.IsClashing(start, end, p.conflictUniverse(), p.minDuration) {
		return models.TimeSlot{}, schedule.ErrClash
	}

	proposal := models.TimeSlot{
		Start:       start,
		End:         end,
		CreatedByID: p.providerID,
		IsBooked:    true,
		RequestID:   p.requestID,
	}
	booked, err := p.api.Rebook(ctx, p.requestID, proposal)
	if err != nil {
		p.log.Error("rebooking failed", zap.String("requestId", p.requestID), zap.Error(err))
		return models.TimeSlot{}, err
	}
	return booked, nil
}

// conflictUniverse excludes the slot currently held by the request being
// rescheduled: moving a booking must not clash with its own old time.
func (p *BookingPicker) conflictUniverse() []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(p.slots))
	for _, slot := range p.slots {
		if p.requestID != "" && slot.RequestID == p.requestID {
			continue
		}
		out = append(out, slot)
	}
	return out
}
