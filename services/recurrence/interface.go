// Package recurrence materializes fixed-weekly slots over a rolling future
// horizon. Storage and query cost stay bounded because occurrences only exist
// up to the horizon; clients signal where the user is looking and the service
// extends the horizon when a visible window gets close to its edge.
package recurrence

import (
	"context"
	"time"

	timeslotRepo "slotwise/database/repository/timeslot"
)

type ExtensionService interface {
	// Extend makes sure the owner's fixed slots are materialized far enough to
	// cover the given visible window plus the configured margin. Idempotent
	// and cheap when the horizon already reaches that far.
	Extend(ctx context.Context, ownerID string, windowStart, windowEnd time.Time) error
	// ExtendAll sweeps every account with fixed slots up to the full rolling
	// horizon. Run periodically by the background worker.
	ExtendAll(ctx context.Context) error
	// Invalidate forgets the owner's cached horizon so the next Extend
	// re-checks per-series coverage. Called after a slot is marked fixed.
	Invalidate(ctx context.Context, ownerID string)
}

// HorizonCache remembers how far materialization has reached per account so
// repeated window navigation does not hit the database.
type HorizonCache interface {
	GetHorizon(ctx context.Context, ownerID string) (time.Time, bool)
	SetHorizon(ctx context.Context, ownerID string, horizon time.Time)
	Invalidate(ctx context.Context, ownerID string)
}

// DefaultExtensionService is the production implementation.
type DefaultExtensionService struct {
	Repo    timeslotRepo.TimeSlotRepository
	Cache   HorizonCache  // optional; nil disables horizon caching
	Horizon time.Duration // rolling horizon length, e.g. six months
	Margin  time.Duration // extend when a window is within this margin of the horizon
}
