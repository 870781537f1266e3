package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/gmail"
)

// EmailLister is the slice of the Gmail client the email tool needs.
type EmailLister interface {
	ListRecent(ctx context.Context, query string, maxResults int64) (*gmail.ListResult, error)
}

// CalendarService is the slice of the Calendar client the calendar tools need.
type CalendarService interface {
	ListUpcoming(ctx context.Context, maxResults int64) (*calendar.ListResult, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error)
}

// Schema describes a tool's input as a JSON schema object.
type Schema struct {
	Properties map[string]any
	Required   []string
}

// Tool is one function the hosted agent may invoke.
type Tool interface {
	Name() string
	Description() string
	InputSchema() Schema

	// Call executes the tool with the agent-supplied arguments and
	// returns the result payload. Errors are converted to text by the
	// dispatcher, not by the tool.
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// All assembles the complete tool set. This is the single place the
// enumeration is defined.
func All(emails EmailLister, cal CalendarService) []Tool {
	return []Tool{
		&readEmailsTool{emails: emails},
		&listCalendarEventsTool{cal: cal},
		&createCalendarEventTool{cal: cal},
	}
}

// --- read_emails ---

type readEmailsTool struct {
	emails EmailLister
}

type readEmailsArgs struct {
	MaxResults int64  `json:"max_results"`
	Query      string `json:"query"`
}

func (t *readEmailsTool) Name() string { return "read_emails" }

func (t *readEmailsTool) Description() string {
	return "Read emails from Gmail. Can filter by query (e.g., 'is:unread', 'from:someone@example.com')"
}

func (t *readEmailsTool) InputSchema() Schema {
	return Schema{
		Properties: map[string]any{
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of emails to retrieve (default: 10)",
			},
			"query": map[string]any{
				"type":        "string",
				"description": "Gmail search query for filtering emails",
			},
		},
	}
}

func (t *readEmailsTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var in readEmailsArgs
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}

	result, err := t.emails.ListRecent(ctx, in.Query, in.MaxResults)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status": "success",
		"count":  result.Count,
		"emails": result.Emails,
	}, nil
}

// --- list_calendar_events ---

type listCalendarEventsTool struct {
	cal CalendarService
}

type listCalendarEventsArgs struct {
	MaxResults int64 `json:"max_results"`
}

func (t *listCalendarEventsTool) Name() string { return "list_calendar_events" }

func (t *listCalendarEventsTool) Description() string {
	return "List upcoming calendar events from Google Calendar"
}

func (t *listCalendarEventsTool) InputSchema() Schema {
	return Schema{
		Properties: map[string]any{
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of events to retrieve (default: 10)",
			},
		},
	}
}

func (t *listCalendarEventsTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var in listCalendarEventsArgs
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}

	result, err := t.cal.ListUpcoming(ctx, in.MaxResults)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status": "success",
		"count":  result.Count,
		"events": result.Events,
	}, nil
}

// --- create_calendar_event ---

type createCalendarEventTool struct {
	cal CalendarService
}

func (t *createCalendarEventTool) Name() string { return "create_calendar_event" }

func (t *createCalendarEventTool) Description() string {
	return "Create a new event in Google Calendar"
}

func (t *createCalendarEventTool) InputSchema() Schema {
	return Schema{
		Properties: map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Event title",
			},
			"start_time": map[string]any{
				"type":        "string",
				"description": "Start time in ISO format (e.g., '2025-10-24T10:00:00Z')",
			},
			"end_time": map[string]any{
				"type":        "string",
				"description": "End time in ISO format",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Event description",
			},
			"location": map[string]any{
				"type":        "string",
				"description": "Event location",
			},
			"attendees": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of attendee email addresses",
			},
		},
		Required: []string{"summary", "start_time", "end_time"},
	}
}

func (t *createCalendarEventTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	var in calendar.EventInput
	if err := unmarshalArgs(args, &in); err != nil {
		return nil, err
	}

	created, err := t.cal.CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status":     "success",
		"event_id":   created.EventID,
		"event_link": created.HTMLLink,
	}, nil
}

func unmarshalArgs(args json.RawMessage, into any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("malformed tool arguments: %w", err)
	}
	return nil
}
