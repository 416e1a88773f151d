package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/services/recurrence"
	"slotwise/utils"
)

// TimeslotHandler serves the calendar REST surface.
type TimeslotHandler struct {
	Service   availability.AvailabilityService
	Extension recurrence.ExtensionService
}

func NewTimeslotHandler(svc availability.AvailabilityService, ext recurrence.ExtensionService) *TimeslotHandler {
	return &TimeslotHandler{Service: svc, Extension: ext}
}

// accountID pulls the authenticated account from the context (set by JWTAuthMiddleware).
func accountID(c *gin.Context) (string, bool) {
	value, exists := c.Get("accountID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid account ID in context"})
		return "", false
	}
	return id, true
}

// parseWindow reads the start/end ISO-8601 query parameters.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid start query parameter"})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid end query parameter"})
		return time.Time{}, time.Time{}, false
	}
	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be before end"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// GetTimeslotsHandler returns the slots overlapping the requested window. A
// providerId query switches the view to another provider's calendar, used by
// consumers picking a replacement booking time.
func (h *TimeslotHandler) GetTimeslotsHandler(c *gin.Context) {
	owner, ok := accountID(c)
	if !ok {
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}
	foreign := false
	if provider := c.Query("providerId"); provider != "" && provider != owner {
		owner = provider
		foreign = true
	}

	slots, err := h.Service.GetWindow(c.Request.Context(), owner, start, end)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch timeslots", zap.String("ownerId", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timeslots"})
		return
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	if foreign {
		// Another provider's calendar is only read to find a free interval.
		// Blocking ranges, flags and the requestId (needed to exclude the
		// caller's own booking when rescheduling) stay; labels do not.
		for i := range slots {
			slots[i].Title = ""
			slots[i].JobID = ""
		}
	}
	c.JSON(http.StatusOK, slots)
}

// CreateTimeslotsHandler persists a batch of new availability slots.
func (h *TimeslotHandler) CreateTimeslotsHandler(c *gin.Context) {
	owner, ok := accountID(c)
	if !ok {
		return
	}

	var req struct {
		Events []models.TimeSlot `json:"events" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Events) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	inserted, err := h.Service.CreateSlots(c.Request.Context(), owner, req.Events)
	if err != nil {
		if errors.Is(err, availability.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Timeslot conflicts with existing availability"})
			return
		}
		utils.GetLogger().Error("Failed to create timeslots", zap.String("ownerId", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create timeslots", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insertedEvents": inserted})
}

// DeleteTimeslotHandler removes a slot, optionally with all future
// occurrences of its weekly series.
func (h *TimeslotHandler) DeleteTimeslotHandler(c *gin.Context) {
	owner, ok := accountID(c)
	if !ok {
		return
	}

	var req struct {
		Event           models.TimeSlot `json:"event" binding:"required"`
		DeleteAllFuture bool            `json:"deleteAllFuture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Service.DeleteSlot(c.Request.Context(), owner, req.Event, req.DeleteAllFuture); err != nil {
		switch {
		case errors.Is(err, availability.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Timeslot not found"})
		case errors.Is(err, availability.ErrBookedSlot):
			c.JSON(http.StatusConflict, gin.H{"error": "Booked timeslots cannot be deleted"})
		default:
			utils.GetLogger().Error("Failed to delete timeslot", zap.String("ownerId", owner), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete timeslot"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Timeslot deleted successfully"})
}

// MarkFixedHandler flips a slot to weekly recurrence.
func (h *TimeslotHandler) MarkFixedHandler(c *gin.Context) {
	owner, ok := accountID(c)
	if !ok {
		return
	}

	var slot models.TimeSlot
	if err := c.ShouldBindJSON(&slot); err != nil || slot.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updated, err := h.Service.MarkFixed(c.Request.Context(), owner, slot)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Timeslot not found or booked"})
			return
		}
		utils.GetLogger().Error("Failed to mark timeslot fixed", zap.String("slotId", slot.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update timeslot"})
		return
	}

	// A new weekly series exists; the cached horizon no longer covers it.
	h.Extension.Invalidate(c.Request.Context(), owner)

	c.JSON(http.StatusOK, updated)
}

// ExtendHandler asks the recurrence service to make sure fixed slots cover
// the window the user is looking at. Best-effort by contract: the client
// ignores the response body.
func (h *TimeslotHandler) ExtendHandler(c *gin.Context) {
	owner, ok := accountID(c)
	if !ok {
		return
	}

	var req struct {
		Start time.Time `json:"start" binding:"required"`
		End   time.Time `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.Extension.Extend(c.Request.Context(), owner, req.Start, req.End); err != nil {
		utils.GetLogger().Error("Failed to extend recurring horizon", zap.String("ownerId", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extend recurring horizon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Horizon extended"})
}

// RebookHandler moves an existing request's booking to a new interval on a
// provider's calendar.
func (h *TimeslotHandler) RebookHandler(c *gin.Context) {
	if _, ok := accountID(c); !ok {
		return
	}

	var req struct {
		RequestID string          `json:"requestId" binding:"required"`
		Event     models.TimeSlot `json:"event" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Event.CreatedByID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	booked, err := h.Service.Rebook(c.Request.Context(), req.RequestID, req.Event)
	if err != nil {
		if errors.Is(err, availability.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Requested time conflicts with the provider's schedule"})
			return
		}
		utils.GetLogger().Error("Failed to rebook request", zap.String("requestId", req.RequestID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebook request"})
		return
	}

	c.JSON(http.StatusOK, booked)
}
