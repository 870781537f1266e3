package calendar

import (
	"time"

	cal "google.golang.org/api/calendar/v3"
)

// EventInput is the input for creating a calendar event. Start and End
// are ISO 8601 timestamps, accepted in the provider's timestamp format
// and echoed to it verbatim.
type EventInput struct {
	Summary     string   `json:"summary"`
	Start       string   `json:"start_time"`
	End         string   `json:"end_time"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// EventSummary is a normalized projection of a calendar event.
type EventSummary struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// CreatedEvent reports the outcome of an event creation.
type CreatedEvent struct {
	EventID  string `json:"event_id"`
	HTMLLink string `json:"event_link,omitempty"`
}

// ListResult holds the outcome of a ListUpcoming call. Count always
// equals len(Events).
type ListResult struct {
	Count  int            `json:"count"`
	Events []EventSummary `json:"events"`
}

// toEventSummary converts a Google Calendar event to an EventSummary.
// All-day events carry a date instead of a dateTime; whichever is set is
// passed through.
func toEventSummary(event *cal.Event) EventSummary {
	if event == nil {
		return EventSummary{Summary: "No Title"}
	}

	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Location:    event.Location,
		Description: event.Description,
	}
	if summary.Summary == "" {
		summary.Summary = "No Title"
	}

	if event.Start != nil {
		summary.Start = eventTime(event.Start)
	}
	if event.End != nil {
		summary.End = eventTime(event.End)
	}

	for _, att := range event.Attendees {
		if att.Email != "" {
			summary.Attendees = append(summary.Attendees, att.Email)
		}
	}

	return summary
}

func eventTime(dt *cal.EventDateTime) string {
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}

// parseEventTime accepts the timestamp formats the provider accepts.
func parseEventTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
