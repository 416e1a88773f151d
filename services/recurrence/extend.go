package recurrence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/utils"
)

// seriesKey identifies one weekly series among an owner's fixed slots.
type seriesKey struct {
	weekday     time.Weekday
	minuteOfDay int
	duration    time.Duration
}

func keyOf(slot models.TimeSlot) seriesKey {
	return seriesKey{
		weekday:     slot.Start.Weekday(),
		minuteOfDay: slot.Start.Hour()*60 + slot.Start.Minute(),
		duration:    slot.Duration(),
	}
}

func (s *DefaultExtensionService) Extend(ctx context.Context, ownerID string, windowStart, windowEnd time.Time) error {
	target := time.Now().Add(s.Horizon)
	if t := windowEnd.Add(s.Margin); t.After(target) {
		target = t
	}

	if s.Cache != nil {
		if horizon, ok := s.Cache.GetHorizon(ctx, ownerID); ok && !horizon.Before(target) {
			return nil
		}
	}

	// Cache miss: the stored series may still reach far enough, e.g. after a
	// cache flush or on a fresh instance. Coverage is per series, so the
	// short-circuit keys on the least-extended series: a freshly fixed slot
	// pulls the minimum down to its own start and materialization runs.
	if horizon, err := s.Repo.MinSeriesHorizon(ctx, ownerID); err == nil && !horizon.Before(target) {
		if s.Cache != nil {
			s.Cache.SetHorizon(ctx, ownerID, horizon)
		}
		return nil
	}

	if err := s.materialize(ctx, ownerID, target); err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.SetHorizon(ctx, ownerID, target)
	}
	return nil
}

// Invalidate drops the owner's cached horizon. Called when a slot turns
// fixed: the new series starts with zero future occurrences, so the cached
// aggregate no longer describes every series.
func (s *DefaultExtensionService) Invalidate(ctx context.Context, ownerID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, ownerID)
	}
}

func (s *DefaultExtensionService) ExtendAll(ctx context.Context) error {
	logger := utils.GetLogger()
	owners, err := s.Repo.FixedOwners(ctx)
	if err != nil {
		return fmt.Errorf("failed to list fixed-slot owners: %w", err)
	}

	now := time.Now()
	for _, owner := range owners {
		if err := s.Extend(ctx, owner, now, now); err != nil {
			// One broken account must not stall the sweep.
			logger.Error("horizon extension failed", zap.String("ownerId", owner), zap.Error(err))
		}
	}
	return nil
}

// materialize clones every weekly series of the owner forward until its last
// occurrence reaches the target. Generated occurrences are plain fixed slots:
// never booked, no transit padding, fresh ids assigned by the repository.
func (s *DefaultExtensionService) materialize(ctx context.Context, ownerID string, target time.Time) error {
	seeds, err := s.Repo.FixedSeeds(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load fixed slots: %w", err)
	}
	if len(seeds) == 0 {
		return nil
	}

	// Latest existing occurrence per series; generation resumes from there.
	latest := make(map[seriesKey]models.TimeSlot)
	for _, slot := range seeds {
		k := keyOf(slot)
		if cur, ok := latest[k]; !ok || slot.Start.After(cur.Start) {
			latest[k] = slot
		}
	}

	var generated []models.TimeSlot
	for _, seed := range latest {
		for start := seed.Start.AddDate(0, 0, 7); !start.After(target); start = start.AddDate(0, 0, 7) {
			end := start.Add(seed.Duration())
			// Guard against overlapping sweeps regenerating the same week.
			exists, err := s.Repo.ExistsInterval(ctx, ownerID, start, end)
			if err != nil {
				return fmt.Errorf("duplicate check failed: %w", err)
			}
			if exists {
				continue
			}
			generated = append(generated, models.TimeSlot{
				Start:       start,
				End:         end,
				Title:       seed.Title,
				IsFixed:     true,
				CreatedByID: ownerID,
			})
		}
	}
	if len(generated) == 0 {
		return nil
	}

	if _, err := s.Repo.InsertMany(ctx, generated); err != nil {
		return fmt.Errorf("failed to insert generated slots: %w", err)
	}
	utils.GetLogger().Info("materialized fixed slots",
		zap.String("ownerId", ownerID),
		zap.Int("count", len(generated)),
		zap.Time("horizon", target))
	return nil
}
