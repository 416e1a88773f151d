package availability

import "errors"

var (
	// ErrConflict indicates the requested interval overlaps a stored slot or
	// its transit padding.
	ErrConflict = errors.New("availability: interval conflicts with an existing slot")
	// ErrBookedSlot indicates a mutation targeted a booked slot.
	ErrBookedSlot = errors.New("availability: booked slots cannot be modified")
	// ErrNotFound indicates the referenced slot does not exist.
	ErrNotFound = errors.New("availability: timeslot not found")
)
