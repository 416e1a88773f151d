// Package calendar owns the client-side view state of the availability
// calendar: the slot list for the currently visible window, optimistic
// create/delete/update mediation against the remote slot store, and the
// booking-mode variant used when a consumer picks a replacement time.
package calendar

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/schedule"
)

// ErrBookedSlot is returned when a mutation targets a booked slot. Booked
// slots only change through backend-driven state transitions.
var ErrBookedSlot = errors.New("calendar: booked slots cannot be modified")

// ErrClosed is returned when an operation runs against a closed controller.
var ErrClosed = errors.New("calendar: controller is closed")

// entry pairs a slot with a client-local temporary key. The key lives in its
// own uuid space, distinct from server ids, so the provisional→confirmed
// replacement never has to match on (start, end) values.
type entry struct {
	key  string
	slot models.TimeSlot
}

// Controller mediates every mutation of the visible slot window. Mutating
// operations are serialized end to end through opMu, so interleaved network
// completions cannot reorder local state; mu guards the state itself so the
// optimistic view stays readable while a request is in flight.
type Controller struct {
	api         Client
	accountID   string
	minDuration time.Duration
	log         *zap.Logger

	opMu        sync.Mutex // serializes mutating operations, including their network round-trip
	mu          sync.Mutex // guards the fields below
	entries     []entry
	dialog      Dialog
	selected    *models.TimeSlot
	windowStart time.Time
	windowEnd   time.Time
	closed      bool
}

// NewController builds a controller for the given account. minDuration is the
// configured default slot length used for normalization and clash checks.
func NewController(api Client, accountID string, minDuration time.Duration, log *zap.Logger) *Controller {
	return &Controller{
		api:         api,
		accountID:   accountID,
		minDuration: minDuration,
		log:         log,
	}
}

// Slots returns a copy of the visible slots ordered by start time. Provisional
// entries (no id yet) are included.
func (c *Controller) Slots() []models.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.TimeSlot, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.slot
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Dialog returns the currently open dialog.
func (c *Controller) Dialog() Dialog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog
}

// Selected returns the slot the current dialog refers to, if any.
func (c *Controller) Selected() *models.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	slot := *c.selected
	return &slot
}

// Dismiss closes the current dialog.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = DialogNone
	c.selected = nil
}

// Close prevents any further state updates. In-flight requests are not
// cancelled, but their completions no longer touch local state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SelectRange handles the user drawing a candidate slot. The interval is
// normalized to the minimum duration and checked against the visible slots;
// a clash opens the clash dialog and changes nothing else. A clean candidate
// is appended provisionally, persisted, and then replaced in place by the
// server-confirmed slot. If the create fails the provisional entry is removed
// again: the local view never keeps a slot the server rejected.
func (c *Controller) SelectRange(ctx context.Context, start, end time.Time) (models.TimeSlot, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	start, end = schedule.Normalize(start, end, c.minDuration)
	candidate := models.TimeSlot{
		Start:       start,
		End:         end,
		CreatedByID: c.accountID,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return models.TimeSlot{}, ErrClosed
	}
	if schedule.IsClashing(start, end, c.snapshotLocked(), c.minDuration) {
		c.dialog = DialogClash
		c.mu.Unlock()
		return models.TimeSlot{}, schedule.ErrClash
	}
	key := uuid.New().String()
	c.entries = append(c.entries, entry{key: key, slot: candidate})
	c.mu.Unlock()

	inserted, err := c.api.Create(ctx, []models.TimeSlot{candidate})
	if err != nil || len(inserted) == 0 {
		c.removeByKey(key)
		if err == nil {
			err = errors.New("calendar: create returned no slots")
		}
		c.log.Error("slot create failed", zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		return models.TimeSlot{}, err
	}

	confirmed := inserted[0]
	c.mu.Lock()
	if !c.closed {
		for i := range c.entries {
			if c.entries[i].key == key {
				c.entries[i].slot = confirmed
				break
			}
		}
	}
	c.mu.Unlock()
	return confirmed, nil
}

// SelectExisting opens the management affordances for a slot: booked slots get
// the read-only detail view, everything else the action menu.
func (c *Controller) SelectExisting(slot models.TimeSlot) Dialog {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return DialogNone
	}
	selected := slot
	c.selected = &selected
	if slot.IsBooked {
		c.dialog = DialogViewBooked
	} else {
		c.dialog = DialogManage
	}
	return c.dialog
}

// RequestDelete moves from the action menu to the delete confirmation step.
// Fixed slots get the options dialog (this occurrence or all future ones),
// one-off slots the plain confirmation. Booked slots never reach here through
// SelectExisting, but the guard keeps direct callers honest too.
func (c *Controller) RequestDelete(slot models.TimeSlot) (Dialog, error) {
	if slot.IsBooked {
		return DialogNone, ErrBookedSlot
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return DialogNone, ErrClosed
	}
	selected := slot
	c.selected = &selected
	if slot.IsFixed {
		c.dialog = DialogDeleteOptions
	} else {
		c.dialog = DialogDeleteConfirm
	}
	return c.dialog, nil
}

// DeleteSlot removes a slot. deleteAllFuture is only honored by the backend
// when the slot is fixed. On success every local entry covering the deleted
// slot's exact (start, end) pair is removed; a failed delete leaves local
// state untouched.
func (c *Controller) DeleteSlot(ctx context.Context, slot models.TimeSlot, deleteAllFuture bool) error {
	if slot.IsBooked {
		return ErrBookedSlot
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.api.Delete(ctx, slot, deleteAllFuture); err != nil {
		c.log.Error("slot delete failed", zap.String("id", slot.ID), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	kept := c.entries[:0]
	for _, e := range c.entries {
		if !e.slot.SameInterval(slot) {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.dialog = DialogNone
	c.selected = nil
	return nil
}

// RepeatWeekly marks a slot as recurring. The transition is one-way; there is
// no unfix action. Materialization of future occurrences stays with the
// backend, triggered by window navigation.
func (c *Controller) RepeatWeekly(ctx context.Context, slot models.TimeSlot) (models.TimeSlot, error) {
	if slot.IsBooked {
		return models.TimeSlot{}, ErrBookedSlot
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	slot.IsFixed = true
	updated, err := c.api.MarkFixed(ctx, slot)
	if err != nil {
		c.log.Error("repeat-weekly failed", zap.String("id", slot.ID), zap.Error(err))
		return models.TimeSlot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		for i := range c.entries {
			if c.entries[i].slot.ID == updated.ID {
				c.entries[i].slot = updated
				break
			}
		}
		c.dialog = DialogNone
		c.selected = nil
	}
	return updated, nil
}

// ChangeWindow loads the slots for a new visible range, replacing (never
// merging) local state, and fires a best-effort request asking the backend to
// extend fixed-slot materialization toward the new window. A failed fetch
// keeps the stale window and logs; extension failures are logged and ignored.
func (c *Controller) ChangeWindow(ctx context.Context, start, end time.Time) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	slots, err := c.api.FetchWindow(ctx, start, end)
	if err != nil {
		c.log.Error("window fetch failed", zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		c.notifyExtend(ctx, start, end)
		return err
	}

	c.mu.Lock()
	if !c.closed {
		c.entries = c.entries[:0]
		for _, slot := range slots {
			c.entries = append(c.entries, entry{key: uuid.New().String(), slot: slot})
		}
		c.windowStart = start
		c.windowEnd = end
	}
	c.mu.Unlock()

	c.notifyExtend(ctx, start, end)
	return nil
}

// Window returns the currently visible range.
func (c *Controller) Window() (time.Time, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.windowStart, c.windowEnd
}

// notifyExtend runs the horizon-extension notification without blocking the
// caller or inheriting its cancellation. Never user-visible; retried
// implicitly on the next navigation.
func (c *Controller) notifyExtend(ctx context.Context, start, end time.Time) {
	go func(ctx context.Context) {
		if err := c.api.Extend(ctx, start, end); err != nil {
			c.log.Warn("horizon extension failed", zap.Time("start", start), zap.Time("end", end), zap.Error(err))
		}
	}(context.WithoutCancel(ctx))
}

func (c *Controller) removeByKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.key != key {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// snapshotLocked copies the current slots; caller must hold mu.
func (c *Controller) snapshotLocked() []models.TimeSlot {
	out := make([]models.TimeSlot, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.slot
	}
	return out
}
