package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"slotwise/models"
)

// fakeAvailability is an in-memory AvailabilityService for handler tests.
type fakeAvailability struct {
	window []models.TimeSlot
}

func (f *fakeAvailability) GetWindow(ctx context.Context, ownerID string, start, end time.Time) ([]models.TimeSlot, error) {
	return f.window, nil
}

func (f *fakeAvailability) CreateSlots(ctx context.Context, ownerID string, events []models.TimeSlot) ([]models.TimeSlot, error) {
	return events, nil
}

func (f *fakeAvailability) DeleteSlot(ctx context.Context, ownerID string, event models.TimeSlot, deleteAllFuture bool) error {
	return nil
}

func (f *fakeAvailability) MarkFixed(ctx context.Context, ownerID string, slot models.TimeSlot) (*models.TimeSlot, error) {
	slot.IsFixed = true
	return &slot, nil
}

func (f *fakeAvailability) Rebook(ctx context.Context, requestID string, proposal models.TimeSlot) (*models.TimeSlot, error) {
	return &proposal, nil
}

// fakeExtension records horizon operations.
type fakeExtension struct {
	extended    int
	invalidated []string
}

func (f *fakeExtension) Extend(ctx context.Context, ownerID string, windowStart, windowEnd time.Time) error {
	f.extended++
	return nil
}

func (f *fakeExtension) ExtendAll(ctx context.Context) error { return nil }

func (f *fakeExtension) Invalidate(ctx context.Context, ownerID string) {
	f.invalidated = append(f.invalidated, ownerID)
}

func newTestRouter(svc *fakeAvailability, ext *fakeExtension) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTimeslotHandler(svc, ext)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("accountID", "acct-1") })
	r.GET("/api/timeslots", h.GetTimeslotsHandler)
	r.PATCH("/api/timeslots", h.MarkFixedHandler)
	return r
}

func windowQuery(day time.Time) string {
	return "start=" + day.Format(time.RFC3339) + "&end=" + day.AddDate(0, 0, 7).Format(time.RFC3339)
}

func TestGetTimeslots_ForeignCalendarRedactsLabels(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	svc := &fakeAvailability{window: []models.TimeSlot{{
		ID:          "p1",
		Start:       day.Add(9 * time.Hour),
		End:         day.Add(10 * time.Hour),
		Title:       "gutter cleaning for the Smiths",
		IsBooked:    true,
		CreatedByID: "prov-9",
		RequestID:   "req-1",
		JobID:       "job-7",
	}}}
	r := newTestRouter(svc, &fakeExtension{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/timeslots?"+windowQuery(day)+"&providerId=prov-9", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var slots []models.TimeSlot
	if err := json.Unmarshal(w.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected one slot, got %d", len(slots))
	}
	got := slots[0]
	if got.Title != "" || got.JobID != "" {
		t.Fatalf("foreign read must not expose labels, got title=%q jobId=%q", got.Title, got.JobID)
	}
	if got.RequestID != "req-1" {
		t.Fatal("requestId must survive; rescheduling excludes the caller's own booking by it")
	}
	if !got.Start.Equal(day.Add(9*time.Hour)) || !got.IsBooked {
		t.Fatal("blocking interval and flags must survive redaction")
	}
}

func TestGetTimeslots_OwnCalendarKeepsLabels(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	svc := &fakeAvailability{window: []models.TimeSlot{{
		ID:          "a1",
		Start:       day.Add(9 * time.Hour),
		End:         day.Add(10 * time.Hour),
		Title:       "weekly availability",
		CreatedByID: "acct-1",
	}}}
	r := newTestRouter(svc, &fakeExtension{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/timeslots?"+windowQuery(day), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var slots []models.TimeSlot
	if err := json.Unmarshal(w.Body.Bytes(), &slots); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if slots[0].Title != "weekly availability" {
		t.Fatal("own calendar reads keep the slot title")
	}
}

func TestMarkFixed_InvalidatesHorizonCache(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ext := &fakeExtension{}
	r := newTestRouter(&fakeAvailability{}, ext)

	slot := models.TimeSlot{ID: "a1", Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}
	payload, _ := json.Marshal(slot)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/timeslots", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	if len(ext.invalidated) != 1 || ext.invalidated[0] != "acct-1" {
		t.Fatalf("marking fixed must drop the owner's cached horizon, got %v", ext.invalidated)
	}
}
