package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/mindloft/wellness/v1/calendar"
	"github.com/mindloft/wellness/v1/logger"
	"github.com/mindloft/wellness/v1/profile"
)

// AppointmentStore is the slice of the profile store the scheduling
// agent writes through.
type AppointmentStore interface {
	SaveAppointment(ctx context.Context, appt *profile.Appointment) error
	GetAppointment(ctx context.Context, appointmentID string) (*profile.Appointment, error)
	UpcomingAppointments(ctx context.Context, userID string, from time.Time) ([]profile.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) error
}

// SchedulingAgent manages wellness appointments: calendar events plus
// the platform's own appointment rows, kept in sync on every change.
type SchedulingAgent struct {
	calendar     calendar.Service
	appointments AppointmentStore
	log          *logger.Logger
}

// SchedulingParams defines the dependencies for the scheduling agent.
type SchedulingParams struct {
	fx.In

	Calendar     calendar.Service
	Appointments *profile.Store
	Logger       *logger.Logger `optional:"true"`
}

// NewSchedulingAgent constructs the scheduling agent.
func NewSchedulingAgent(p SchedulingParams) *SchedulingAgent {
	return &SchedulingAgent{
		calendar:     p.Calendar,
		appointments: p.Appointments,
		log:          p.Logger,
	}
}

func (a *SchedulingAgent) Name() string { return AgentScheduling }

func (a *SchedulingAgent) Description() string {
	return "Appointment scheduling with calendar sync and free slot search"
}

// Handle executes one scheduling action. Payload: user_id, action
// (create, list, free_slots, cancel) plus action-specific fields.
func (a *SchedulingAgent) Handle(ctx context.Context, msg *Message) (*Message, error) {
	userID, err := msg.StringField("user_id")
	if err != nil {
		return nil, err
	}
	action, err := msg.StringField("action")
	if err != nil {
		return nil, err
	}

	switch action {
	case "create":
		return a.create(ctx, msg, userID)
	case "list":
		return a.list(ctx, msg, userID)
	case "free_slots":
		return a.freeSlots(ctx, msg)
	case "cancel":
		return a.cancel(ctx, msg)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidMessage, action)
	}
}

// create books a calendar event and mirrors it as an appointment row.
// Payload: title, start, end (RFC3339); optional notes.
func (a *SchedulingAgent) create(ctx context.Context, msg *Message, userID string) (*Message, error) {
	title, err := msg.StringField("title")
	if err != nil {
		return nil, err
	}
	start, err := timeField(msg, "start")
	if err != nil {
		return nil, err
	}
	end, err := timeField(msg, "end")
	if err != nil {
		return nil, err
	}

	event, err := a.calendar.CreateEvent(ctx, calendar.Event{
		Summary:     title,
		Description: msg.OptionalString("notes"),
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, err
	}

	appt := &profile.Appointment{
		UserID:          userID,
		CalendarEventID: event.ID,
		Title:           title,
		Notes:           msg.OptionalString("notes"),
		StartsAt:        event.Start,
		EndsAt:          event.End,
	}
	if err := a.appointments.SaveAppointment(ctx, appt); err != nil {
		// The calendar event exists but the row does not; surface the
		// error so the message is retried and the row written.
		return nil, err
	}

	return msg.Respond(map[string]any{
		"appointment_id": appt.ID,
		"event_id":       event.ID,
		"event_link":     event.HTMLLink,
		"starts_at":      event.Start.Format(time.RFC3339),
	}), nil
}

func (a *SchedulingAgent) list(ctx context.Context, msg *Message, userID string) (*Message, error) {
	appointments, err := a.appointments.UpcomingAppointments(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(appointments))
	for _, appt := range appointments {
		items = append(items, map[string]any{
			"appointment_id": appt.ID,
			"title":          appt.Title,
			"starts_at":      appt.StartsAt.Format(time.RFC3339),
			"ends_at":        appt.EndsAt.Format(time.RFC3339),
		})
	}

	return msg.Respond(map[string]any{"appointments": items}), nil
}

// freeSlots suggests open appointment times. Payload: from, to
// (RFC3339); optional duration_minutes (default 60).
func (a *SchedulingAgent) freeSlots(ctx context.Context, msg *Message) (*Message, error) {
	from, err := timeField(msg, "from")
	if err != nil {
		return nil, err
	}
	to, err := timeField(msg, "to")
	if err != nil {
		return nil, err
	}
	duration := time.Duration(msg.IntField("duration_minutes", 60)) * time.Minute

	slots, err := a.calendar.FindFreeSlots(ctx, from, to, duration)
	if err != nil {
		return nil, err
	}

	formatted := make([]string, 0, len(slots))
	for _, slot := range slots {
		formatted = append(formatted, slot.Format(time.RFC3339))
	}

	return msg.Respond(map[string]any{"slots": formatted}), nil
}

// cancel marks the appointment row cancelled and removes the mirrored
// calendar event. A failed calendar delete leaves the row cancelled;
// the event is reported back so a retry can clean it up.
func (a *SchedulingAgent) cancel(ctx context.Context, msg *Message) (*Message, error) {
	appointmentID, err := msg.StringField("appointment_id")
	if err != nil {
		return nil, err
	}

	appt, err := a.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := a.appointments.CancelAppointment(ctx, appointmentID); err != nil {
		return nil, err
	}

	payload := map[string]any{"cancelled": appointmentID}
	if appt.CalendarEventID != "" {
		if err := a.calendar.DeleteEvent(ctx, appt.CalendarEventID); err != nil {
			a.warn("Calendar event delete failed", err, appt.CalendarEventID)
			payload["event_id"] = appt.CalendarEventID
			payload["event_deleted"] = false
		} else {
			payload["event_deleted"] = true
		}
	}
	return msg.Respond(payload), nil
}

func (a *SchedulingAgent) warn(msg string, err error, eventID string) {
	if a.log != nil {
		a.log.Warn(msg, err, map[string]interface{}{"agent": AgentScheduling, "event_id": eventID})
	}
}

func timeField(msg *Message, key string) (time.Time, error) {
	raw, err := msg.StringField(key)
	if err != nil {
		return time.Time{}, err
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not RFC3339: %v", ErrInvalidMessage, key, err)
	}
	return parsed, nil
}
