package models

// SlotStyle classifies how a slot block is rendered on the calendar.
type SlotStyle string

const (
	StyleBooked        SlotStyle = "booked"        // single uniform block
	StyleBookedTransit SlotStyle = "bookedTransit" // three proportional bands
	StyleFixed         SlotStyle = "fixed"         // editable, recurring
	StyleOpen          SlotStyle = "open"          // editable, one-off
)

// DisplayBands describes the proportional layout of a rendered slot block.
// For a booked slot with transit padding the block splits into a pre-buffer,
// the core booked interval and a post-buffer, each a fraction of the full
// transit range. All three sum to 1. Slots without padding render as a single
// band with Core = 1.
type DisplayBands struct {
	PreBuffer  float64 `json:"preBuffer"`
	Core       float64 `json:"core"`
	PostBuffer float64 `json:"postBuffer"`
}

// Style returns the rendering class for the slot.
func (s TimeSlot) Style() SlotStyle {
	switch {
	case s.IsBooked && s.HasTransit():
		return StyleBookedTransit
	case s.IsBooked:
		return StyleBooked
	case s.IsFixed:
		return StyleFixed
	default:
		return StyleOpen
	}
}

// Bands computes the proportional display bands for the slot.
func (s TimeSlot) Bands() DisplayBands {
	if !s.IsBooked || !s.HasTransit() {
		return DisplayBands{Core: 1}
	}
	total := s.TransitEnd.Sub(*s.TransitStart)
	if total <= 0 {
		return DisplayBands{Core: 1}
	}
	pre := float64(s.Start.Sub(*s.TransitStart)) / float64(total)
	core := float64(s.End.Sub(s.Start)) / float64(total)
	return DisplayBands{
		PreBuffer:  pre,
		Core:       core,
		PostBuffer: 1 - pre - core,
	}
}
