package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mindloft/wellness/v1/observability"
	"go.uber.org/fx"
)

// Client implements Service against the Google Calendar v3 REST API.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	observer   observability.Observer
}

// CalendarParams defines the dependencies needed to construct a Client.
type CalendarParams struct {
	fx.In

	Config   *Config
	Observer observability.Observer `optional:"true"`
}

// NewClient constructs a scheduling client and validates the
// configuration. No network calls happen at construction time.
func NewClient(p CalendarParams) (*Client, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	observer := observability.Observer(observability.NoopObserver{})
	if p.Observer != nil {
		observer = p.Observer
	}

	log.Printf("[Calendar] Client initialized (calendar=%s)", p.Config.CalendarID)

	return &Client{
		cfg:        p.Config,
		httpClient: &http.Client{Timeout: p.Config.HTTPTimeout},
		observer:   observer,
	}, nil
}

var _ Service = (*Client)(nil)

// wireEvent is the Calendar API representation of an event.
type wireEvent struct {
	ID          string       `json:"id,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Start       wireDateTime `json:"start"`
	End         wireDateTime `json:"end"`
	HTMLLink    string       `json:"htmlLink,omitempty"`
}

type wireDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

func toWire(event Event) wireEvent {
	return wireEvent{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       wireDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         wireDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
}

func fromWire(w wireEvent) (Event, error) {
	start, err := time.Parse(time.RFC3339, w.Start.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad start time %q", ErrInvalidEvent, w.Start.DateTime)
	}
	end, err := time.Parse(time.RFC3339, w.End.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("%w: bad end time %q", ErrInvalidEvent, w.End.DateTime)
	}
	return Event{
		ID:          w.ID,
		Summary:     w.Summary,
		Description: w.Description,
		Start:       start,
		End:         end,
		HTMLLink:    w.HTMLLink,
	}, nil
}

// CreateEvent creates a calendar event and returns it with the
// server-assigned ID.
func (c *Client) CreateEvent(ctx context.Context, event Event) (*Event, error) {
	start := time.Now()

	if event.Summary == "" {
		return nil, fmt.Errorf("%w: empty summary", ErrInvalidEvent)
	}
	if event.Start.IsZero() || event.End.IsZero() || !event.End.After(event.Start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidEvent)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.cfg.BaseURL, url.PathEscape(c.cfg.CalendarID))

	var created wireEvent
	err := c.doJSON(ctx, http.MethodPost, endpoint, toWire(event), &created)

	c.observeOperation("create_event", c.cfg.CalendarID, start, err, 1)
	if err != nil {
		return nil, err
	}

	out, err := fromWire(created)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEvent removes a calendar event. An event that is already gone
// (404, or 410 for previously cancelled events) counts as deleted.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	start := time.Now()

	if eventID == "" {
		return fmt.Errorf("%w: empty event id", ErrInvalidEvent)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.CalendarID), url.PathEscape(eventID))

	err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
	if errors.Is(err, ErrNotFound) {
		err = nil
	}

	c.observeOperation("delete_event", c.cfg.CalendarID, start, err, 1)
	return err
}

// ListEvents returns the events between from and to, ordered by start
// time. Recurring events are expanded into single instances.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	start := time.Now()

	if !to.After(from) {
		return nil, fmt.Errorf("%w: to must be after from", ErrInvalidRange)
	}

	query := url.Values{}
	query.Set("timeMin", from.Format(time.RFC3339))
	query.Set("timeMax", to.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.CalendarID), query.Encode())

	var parsed struct {
		Items []wireEvent `json:"items"`
	}
	err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &parsed)

	c.observeOperation("list_events", c.cfg.CalendarID, start, err, len(parsed.Items))
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		// All-day events carry a date instead of a dateTime; they don't
		// block hourly slots and are skipped.
		if item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}
		event, err := fromWire(item)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// FindFreeSlots suggests start times on the hour, within working hours,
// where an event of the given duration does not overlap any existing
// event. Results are capped at MaxSlots.
func (c *Client) FindFreeSlots(ctx context.Context, from, to time.Time, duration time.Duration) ([]time.Time, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration", ErrInvalidRange)
	}

	events, err := c.ListEvents(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Start the scan at the next full hour.
	cursor := from.Truncate(time.Hour)
	if cursor.Before(from) {
		cursor = cursor.Add(time.Hour)
	}

	var slots []time.Time
	for cursor.Before(to) && len(slots) < c.cfg.MaxSlots {
		slotEnd := cursor.Add(duration)
		if slotEnd.After(to) {
			break
		}

		if c.withinWorkday(cursor, slotEnd) && !overlapsAny(cursor, slotEnd, events) {
			slots = append(slots, cursor)
		}
		cursor = cursor.Add(time.Hour)
	}
	return slots, nil
}

// withinWorkday reports whether the slot falls entirely inside working
// hours on a single day.
func (c *Client) withinWorkday(start, end time.Time) bool {
	if start.Hour() < c.cfg.WorkdayStartHour {
		return false
	}
	dayEnd := time.Date(start.Year(), start.Month(), start.Day(),
		c.cfg.WorkdayEndHour, 0, 0, 0, start.Location())
	return !end.After(dayEnd)
}

func overlapsAny(start, end time.Time, events []Event) bool {
	for _, event := range events {
		if start.Before(event.End) && end.After(event.Start) {
			return true
		}
	}
	return false
}

// doJSON sends a request with an optional JSON body and decodes the
// JSON response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[Calendar] encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("[Calendar] build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return translateStatus(resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
