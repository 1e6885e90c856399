// Package calendar schedules wellness appointments through the Google
// Calendar v3 REST API.
//
// The scheduling agent creates events for therapy sessions, workouts
// and check-ins, lists upcoming appointments, and suggests free slots
// within working hours. Created appointments are mirrored as rows in
// the profile store so the platform keeps its own record.
//
//	client, err := calendar.NewClient(calendar.CalendarParams{
//	    Config: calendar.NewConfig(),
//	})
//	if err != nil {
//	    return err
//	}
//
//	slots, err := client.FindFreeSlots(ctx, time.Now(), time.Now().AddDate(0, 0, 7), time.Hour)
//	if err != nil {
//	    return err
//	}
//
//	event, err := client.CreateEvent(ctx, calendar.Event{
//	    Summary: "Therapy session",
//	    Start:   slots[0],
//	    End:     slots[0].Add(time.Hour),
//	})
//
// Authentication is a bearer token; obtaining and refreshing it is the
// deployment's concern. HTTP status codes are translated to sentinels:
// 401/403 → ErrUnauthorized, 404 → ErrNotFound, 429 → ErrRateLimited,
// 5xx → ErrUnavailable.
package calendar
