package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/schedule"
	"slotwise/utils"
)

// GetWindow returns every slot of the owner overlapping [start, end).
func (s *DefaultAvailabilityService) GetWindow(ctx context.Context, ownerID string, start, end time.Time) ([]models.TimeSlot, error) {
	slots, err := s.Repo.GetWindow(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	return slots, nil
}

// CreateSlots validates and persists a batch of new availability slots. Each
// event is normalized to the minimum duration and checked against the stored
// calendar and against the events accepted earlier in the same batch; the
// whole batch is rejected on the first conflict.
func (s *DefaultAvailabilityService) CreateSlots(ctx context.Context, ownerID string, events []models.TimeSlot) ([]models.TimeSlot, error) {
	logger := utils.GetLogger()
	accepted := make([]models.TimeSlot, 0, len(events))

	for i, event := range events {
		start, end := schedule.Normalize(event.Start, event.End, s.SlotDuration)
		event.Start, event.End = start, end
		event.CreatedByID = ownerID
		// Clients declare availability; booked state only ever originates here.
		event.IsBooked = false
		event.TransitStart = nil
		event.TransitEnd = nil
		event.RequestID = ""
		event.JobID = ""

		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}

		stored, err := s.Repo.GetWindow(ctx, ownerID, start, end)
		if err != nil {
			return nil, fmt.Errorf("event %d: conflict check failed: %w", i+1, err)
		}
		universe := append(stored, accepted...)
		if hit := schedule.FirstClash(start, end, universe, s.SlotDuration); hit != nil {
			logger.Warn("slot create rejected: conflict",
				zap.String("ownerId", ownerID),
				zap.Time("start", start),
				zap.String("conflictsWith", hit.ID))
			return nil, ErrConflict
		}
		accepted = append(accepted, event)
	}

	inserted, err := s.Repo.InsertMany(ctx, accepted)
	if err != nil {
		return nil, fmt.Errorf("failed to create timeslots: %w", err)
	}
	return inserted, nil
}

// DeleteSlot removes an availability slot. Booked slots are refused. When the
// slot is fixed and deleteAllFuture is set, every future occurrence of its
// weekly series goes with it; deleteAllFuture is ignored for one-off slots.
func (s *DefaultAvailabilityService) DeleteSlot(ctx context.Context, ownerID string, event models.TimeSlot, deleteAllFuture bool) error {
	slot, err := s.resolve(ctx, ownerID, event)
	if err != nil {
		return err
	}
	if slot.IsBooked {
		return ErrBookedSlot
	}

	if deleteAllFuture && slot.IsFixed {
		if err := s.Repo.DeleteFutureSeries(ctx, ownerID, *slot); err != nil {
			return fmt.Errorf("failed to delete slot series: %w", err)
		}
		return nil
	}

	if err := s.Repo.DeleteByID(ctx, ownerID, slot.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete timeslot: %w", err)
	}
	return nil
}

// MarkFixed flips a slot's recurring flag on. One-way: there is no unfix.
func (s *DefaultAvailabilityService) MarkFixed(ctx context.Context, ownerID string, slot models.TimeSlot) (*models.TimeSlot, error) {
	updated, err := s.Repo.SetFixed(ctx, ownerID, slot.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark timeslot fixed: %w", err)
	}
	return updated, nil
}

// Rebook moves the booking of a service request to a new interval on the
// provider's calendar. The proposal is validated against the provider's
// stored slots, excluding the slot currently held by the request; on success
// the old slot is released and the new booked slot references the request.
func (s *DefaultAvailabilityService) Rebook(ctx context.Context, requestID string, proposal models.TimeSlot) (*models.TimeSlot, error) {
	providerID := proposal.CreatedByID
	start, end := schedule.Normalize(proposal.Start, proposal.End, s.SlotDuration)
	proposal.Start, proposal.End = start, end
	proposal.IsBooked = true
	proposal.IsFixed = false
	proposal.RequestID = requestID
	proposal.ID = ""

	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	current, err := s.Repo.GetByRequestID(ctx, providerID, requestID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up current booking: %w", err)
	}

	stored, err := s.Repo.GetWindow(ctx, providerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}
	universe := stored[:0:0]
	for _, slot := range stored {
		if current != nil && slot.ID == current.ID {
			continue
		}
		universe = append(universe, slot)
	}
	if schedule.IsClashing(start, end, universe, s.SlotDuration) {
		return nil, ErrConflict
	}

	inserted, err := s.Repo.InsertMany(ctx, []models.TimeSlot{proposal})
	if err != nil {
		return nil, fmt.Errorf("failed to record rebooking: %w", err)
	}
	if current != nil {
		if err := s.Repo.DeleteByID(ctx, providerID, current.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			utils.GetLogger().Error("failed to release previous booking slot",
				zap.String("requestId", requestID), zap.String("slotId", current.ID), zap.Error(err))
		}
	}
	return &inserted[0], nil
}

// resolve finds the stored slot an incoming delete refers to, by id when the
// client has one and by exact interval otherwise.
func (s *DefaultAvailabilityService) resolve(ctx context.Context, ownerID string, event models.TimeSlot) (*models.TimeSlot, error) {
	if event.ID != "" {
		slot, err := s.Repo.GetByID(ctx, ownerID, event.ID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to look up timeslot: %w", err)
		}
		return slot, nil
	}

	stored, err := s.Repo.GetWindow(ctx, ownerID, event.Start, event.End)
	if err != nil {
		return nil, fmt.Errorf("failed to look up timeslot: %w", err)
	}
	for i := range stored {
		if stored[i].SameInterval(event) {
			return &stored[i], nil
		}
	}
	return nil, ErrNotFound
}
