package models

import (
	"errors"
	"time"
)

// TimeSlot represents a provider's availability window or an existing booking.
type TimeSlot struct {
	ID           string     `bson:"id,omitempty" json:"id,omitempty"` // empty for a slot not yet persisted
	Start        time.Time  `bson:"start" json:"start"`
	End          time.Time  `bson:"end" json:"end"`
	TransitStart *time.Time `bson:"transitStart,omitempty" json:"transitStart,omitempty"` // buffer before a booked slot
	TransitEnd   *time.Time `bson:"transitEnd,omitempty" json:"transitEnd,omitempty"`     // buffer after a booked slot
	Title        string     `bson:"title,omitempty" json:"title,omitempty"`               // display only
	IsFixed      bool       `bson:"isFixed" json:"isFixed"`                               // repeats weekly
	IsBooked     bool       `bson:"isBooked" json:"isBooked"`
	CreatedByID  string     `bson:"createdById" json:"createdById"`
	RequestID    string     `bson:"requestId,omitempty" json:"requestId,omitempty"` // pending service request occupying this slot
	JobID        string     `bson:"jobId,omitempty" json:"jobId,omitempty"`         // confirmed job occupying this slot
}

var (
	// ErrInvalidInterval indicates start/end ordering is broken.
	ErrInvalidInterval = errors.New("timeslot: start must be before end")
	// ErrInvalidTransit indicates transit padding does not contain the core interval.
	ErrInvalidTransit = errors.New("timeslot: transit range must contain the slot interval")
)

// Validate checks the interval invariants: start < end, and when transit padding
// is present, transitStart <= start <= end <= transitEnd.
func (s TimeSlot) Validate() error {
	if !s.Start.Before(s.End) {
		return ErrInvalidInterval
	}
	if s.TransitStart != nil || s.TransitEnd != nil {
		if s.TransitStart == nil || s.TransitEnd == nil {
			return ErrInvalidTransit
		}
		if s.TransitStart.After(s.Start) || s.TransitEnd.Before(s.End) {
			return ErrInvalidTransit
		}
	}
	return nil
}

// HasTransit reports whether the slot carries transit padding.
func (s TimeSlot) HasTransit() bool {
	return s.TransitStart != nil && s.TransitEnd != nil
}

// BlockingRange returns the interval other bookings must not overlap: the
// transit-padded range when present, the raw slot interval otherwise.
func (s TimeSlot) BlockingRange() (time.Time, time.Time) {
	if s.HasTransit() {
		return *s.TransitStart, *s.TransitEnd
	}
	return s.Start, s.End
}

// SameInterval reports whether two slots cover exactly the same (start, end) pair.
func (s TimeSlot) SameInterval(other TimeSlot) bool {
	return s.Start.Equal(other.Start) && s.End.Equal(other.End)
}

// Duration returns the length of the core bookable interval.
func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
