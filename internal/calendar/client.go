package calendar

import (
	"context"
	"fmt"
	"time"

	cal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/aide-assistant/aide/internal/google"
)

// upcomingWindow is how far ahead ListUpcoming looks.
const upcomingWindow = 7 * 24 * time.Hour

// Client wraps the Google Calendar service.
type Client struct {
	svc *cal.Service

	// now is swappable for tests.
	now func() time.Time
}

// NewClient creates a new Calendar client authenticated through the
// credential manager.
func NewClient(ctx context.Context, creds *google.CredentialManager) (*Client, error) {
	httpClient, err := creds.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token: %w", err)
	}

	svc, err := cal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return NewClientFromService(svc), nil
}

// NewClientFromService wraps an existing Calendar service. Used by tests
// to point the client at a mock API.
func NewClientFromService(svc *cal.Service) *Client {
	return &Client{svc: svc, now: time.Now}
}

// ListUpcoming lists up to maxResults events on the primary calendar
// between now and now plus seven days, ordered by start time.
func (c *Client) ListUpcoming(ctx context.Context, maxResults int64) (*ListResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	timeMin := c.now().UTC()
	timeMax := timeMin.Add(upcomingWindow)

	events, err := c.svc.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	result := &ListResult{Events: []EventSummary{}}
	for _, event := range events.Items {
		result.Events = append(result.Events, toEventSummary(event))
	}
	result.Count = len(result.Events)

	return result, nil
}

// CreateEvent creates one event on the primary calendar. Input fields are
// echoed verbatim to the provider's schema; start must be before end.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary must not be empty")
	}

	start, err := parseEventTime(input.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", input.Start, err)
	}
	end, err := parseEventTime(input.End)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", input.End, err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("event start %q must be before end %q", input.Start, input.End)
	}

	event := &cal.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start: &cal.EventDateTime{
			DateTime: input.Start,
			TimeZone: "UTC",
		},
		End: &cal.EventDateTime{
			DateTime: input.End,
			TimeZone: "UTC",
		},
	}

	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &cal.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return &CreatedEvent{EventID: created.Id, HTMLLink: created.HtmlLink}, nil
}
