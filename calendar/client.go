package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"slotwise/models"
)

// Client is the slot-store API the calendar talks to. The remote store is the
// authoritative copy; everything the controller holds is a window-local view.
type Client interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]models.TimeSlot, error)
	Create(ctx context.Context, events []models.TimeSlot) ([]models.TimeSlot, error)
	Delete(ctx context.Context, event models.TimeSlot, deleteAllFuture bool) error
	MarkFixed(ctx context.Context, slot models.TimeSlot) (models.TimeSlot, error)
	Extend(ctx context.Context, start, end time.Time) error
	ProviderSlots(ctx context.Context, providerID string, start, end time.Time) ([]models.TimeSlot, error)
	Rebook(ctx context.Context, requestID string, slot models.TimeSlot) (models.TimeSlot, error)
}

// HTTPClient talks to the timeslot REST endpoints with a bearer credential.
// Dates cross the wire as ISO-8601 strings.
type HTTPClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewHTTPClient builds a client for the given API base URL and bearer token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) FetchWindow(ctx context.Context, start, end time.Time) ([]models.TimeSlot, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	var slots []models.TimeSlot
	if err := c.do(ctx, http.MethodGet, "/api/timeslots", q, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *HTTPClient) ProviderSlots(ctx context.Context, providerID string, start, end time.Time) ([]models.TimeSlot, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	q.Set("providerId", providerID)
	var slots []models.TimeSlot
	if err := c.do(ctx, http.MethodGet, "/api/timeslots", q, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *HTTPClient) Create(ctx context.Context, events []models.TimeSlot) ([]models.TimeSlot, error) {
	body := struct {
		Events []models.TimeSlot `json:"events"`
	}{Events: events}
	var out struct {
		InsertedEvents []models.TimeSlot `json:"insertedEvents"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/timeslots", nil, body, &out); err != nil {
		return nil, err
	}
	return out.InsertedEvents, nil
}

func (c *HTTPClient) Delete(ctx context.Context, event models.TimeSlot, deleteAllFuture bool) error {
	body := struct {
		Event           models.TimeSlot `json:"event"`
		DeleteAllFuture bool            `json:"deleteAllFuture"`
	}{Event: event, DeleteAllFuture: deleteAllFuture}
	return c.do(ctx, http.MethodDelete, "/api/timeslots", nil, body, nil)
}

func (c *HTTPClient) MarkFixed(ctx context.Context, slot models.TimeSlot) (models.TimeSlot, error) {
	var out models.TimeSlot
	if err := c.do(ctx, http.MethodPatch, "/api/timeslots", nil, slot, &out); err != nil {
		return models.TimeSlot{}, err
	}
	return out, nil
}

func (c *HTTPClient) Extend(ctx context.Context, start, end time.Time) error {
	body := struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}{Start: start, End: end}
	return c.do(ctx, http.MethodPost, "/api/timeslots/extend", nil, body, nil)
}

func (c *HTTPClient) Rebook(ctx context.Context, requestID string, slot models.TimeSlot) (models.TimeSlot, error) {
	body := struct {
		RequestID string          `json:"requestId"`
		Event     models.TimeSlot `json:"event"`
	}{RequestID: requestID, Event: slot}
	var out models.TimeSlot
	if err := c.do(ctx, http.MethodPost, "/api/timeslots/rebook", nil, body, &out); err != nil {
		return models.TimeSlot{}, err
	}
	return out, nil
}
