package calendar

import (
	"context"
	"time"
)

// Service is the scheduling contract the agents depend on. The
// scheduling agent creates appointments here and mirrors them as
// appointment rows in the profile store.
type Service interface {
	// CreateEvent creates a calendar event and returns it with the
	// server-assigned ID.
	CreateEvent(ctx context.Context, event Event) (*Event, error)

	// DeleteEvent removes a calendar event. Deleting an event that is
	// already gone succeeds.
	DeleteEvent(ctx context.Context, eventID string) error

	// ListEvents returns the events between from and to, ordered by
	// start time.
	ListEvents(ctx context.Context, from, to time.Time) ([]Event, error)

	// FindFreeSlots suggests start times within working hours where an
	// event of the given duration fits without overlapping existing
	// events.
	FindFreeSlots(ctx context.Context, from, to time.Time, duration time.Duration) ([]time.Time, error)
}

// Event is a calendar appointment.
type Event struct {
	// ID is assigned by the calendar server
	ID string `json:"id,omitempty"`

	// Summary is the event title
	Summary string `json:"summary"`

	// Description carries appointment details
	Description string `json:"description,omitempty"`

	// Start and End bound the event
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// HTMLLink points at the event in the calendar UI
	HTMLLink string `json:"htmlLink,omitempty"`
}
