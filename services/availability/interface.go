// Package availability is the server-side authority over provider calendars.
// Client-side clash checks are advisory; every mutation lands here and is
// re-validated against the stored slots before it is persisted.
package availability

import (
	"context"
	"time"

	timeslotRepo "slotwise/database/repository/timeslot"
	"slotwise/models"
)

type AvailabilityService interface {
	GetWindow(ctx context.Context, ownerID string, start, end time.Time) ([]models.TimeSlot, error)
	CreateSlots(ctx context.Context, ownerID string, events []models.TimeSlot) ([]models.TimeSlot, error)
	DeleteSlot(ctx context.Context, ownerID string, event models.TimeSlot, deleteAllFuture bool) error
	MarkFixed(ctx context.Context, ownerID string, slot models.TimeSlot) (*models.TimeSlot, error)
	Rebook(ctx context.Context, requestID string, proposal models.TimeSlot) (*models.TimeSlot, error)
}

// DefaultAvailabilityService is the production implementation backed by the
// Mongo timeslot repository.
type DefaultAvailabilityService struct {
	Repo         timeslotRepo.TimeSlotRepository
	SlotDuration time.Duration // configured minimum slot length
}
