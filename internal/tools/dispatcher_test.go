package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/gmail"
	"github.com/aide-assistant/aide/internal/logging"
)

// fakeEmailLister records calls and returns canned results.
type fakeEmailLister struct {
	gotQuery string
	gotMax   int64
	result   *gmail.ListResult
	err      error
}

func (f *fakeEmailLister) ListRecent(ctx context.Context, query string, maxResults int64) (*gmail.ListResult, error) {
	f.gotQuery = query
	f.gotMax = maxResults
	return f.result, f.err
}

// fakeCalendar records calls and returns canned results.
type fakeCalendar struct {
	gotInput    calendar.EventInput
	listResult  *calendar.ListResult
	created     *calendar.CreatedEvent
	listErr     error
	createErr   error
	createCalls int
}

func (f *fakeCalendar) ListUpcoming(ctx context.Context, maxResults int64) (*calendar.ListResult, error) {
	return f.listResult, f.listErr
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	f.createCalls++
	f.gotInput = input
	return f.created, f.createErr
}

func newTestDispatcher(emails *fakeEmailLister, cal *fakeCalendar) *Dispatcher {
	return NewDispatcher(All(emails, cal), logging.Discard())
}

func TestDispatch_ReadEmails(t *testing.T) {
	emails := &fakeEmailLister{
		result: &gmail.ListResult{
			Count: 2,
			Emails: []gmail.EmailSummary{
				{ID: "m1", From: "alice@example.com", Subject: "Hi", Unread: true},
				{ID: "m2", From: "bob@example.com", Subject: "Re: Hi"},
			},
		},
	}
	d := newTestDispatcher(emails, &fakeCalendar{})

	result, isError := d.Dispatch(context.Background(), "read_emails",
		json.RawMessage(`{"query": "is:unread", "max_results": 5}`))
	require.False(t, isError, result)

	assert.Equal(t, "is:unread", emails.gotQuery)
	assert.Equal(t, int64(5), emails.gotMax)

	var payload struct {
		Status string               `json:"status"`
		Count  int                  `json:"count"`
		Emails []gmail.EmailSummary `json:"emails"`
	}
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, 2, payload.Count)
	assert.Len(t, payload.Emails, payload.Count)
}

func TestDispatch_ReadEmails_BackendFailure(t *testing.T) {
	emails := &fakeEmailLister{err: errors.New("rate limit exceeded")}
	d := newTestDispatcher(emails, &fakeCalendar{})

	result, isError := d.Dispatch(context.Background(), "read_emails", json.RawMessage(`{}`))

	// API failures become error-described results, never Go errors.
	assert.True(t, isError)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["message"], "rate limit exceeded")
}

func TestDispatch_ListCalendarEvents(t *testing.T) {
	cal := &fakeCalendar{
		listResult: &calendar.ListResult{
			Count: 1,
			Events: []calendar.EventSummary{
				{ID: "ev1", Summary: "Standup", Start: "2025-10-13T09:00:00Z"},
			},
		},
	}
	d := newTestDispatcher(&fakeEmailLister{}, cal)

	result, isError := d.Dispatch(context.Background(), "list_calendar_events", json.RawMessage(`{"max_results": 3}`))
	require.False(t, isError, result)
	assert.Contains(t, result, `"count":1`)
	assert.Contains(t, result, "Standup")
}

func TestDispatch_CreateCalendarEvent(t *testing.T) {
	cal := &fakeCalendar{
		created: &calendar.CreatedEvent{EventID: "ev-new", HTMLLink: "https://calendar.google.com/x"},
	}
	d := newTestDispatcher(&fakeEmailLister{}, cal)

	args := json.RawMessage(`{
		"summary": "Planning",
		"start_time": "2025-10-24T10:00:00Z",
		"end_time": "2025-10-24T11:00:00Z",
		"attendees": ["alice@example.com", "bob@example.com"]
	}`)
	result, isError := d.Dispatch(context.Background(), "create_calendar_event", args)
	require.False(t, isError, result)

	assert.Equal(t, 1, cal.createCalls)
	assert.Equal(t, "Planning", cal.gotInput.Summary)
	assert.Equal(t, "2025-10-24T10:00:00Z", cal.gotInput.Start)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, cal.gotInput.Attendees)
	assert.Contains(t, result, `"event_id":"ev-new"`)
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newTestDispatcher(&fakeEmailLister{}, &fakeCalendar{})

	result, isError := d.Dispatch(context.Background(), "search_web", nil)

	assert.True(t, isError)
	assert.Contains(t, result, "unknown tool")
	assert.Contains(t, result, "search_web")
}

func TestDispatch_MalformedArguments(t *testing.T) {
	d := newTestDispatcher(&fakeEmailLister{}, &fakeCalendar{})

	result, isError := d.Dispatch(context.Background(), "read_emails", json.RawMessage(`{"max_results": "ten"}`))

	assert.True(t, isError)
	assert.Contains(t, result, "malformed tool arguments")
}

func TestDispatch_EmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	emails := &fakeEmailLister{result: &gmail.ListResult{Count: 0, Emails: []gmail.EmailSummary{}}}
	d := newTestDispatcher(emails, &fakeCalendar{})

	_, isError := d.Dispatch(context.Background(), "read_emails", json.RawMessage(`{}`))
	require.False(t, isError)
	_, isError = d.Dispatch(context.Background(), "search_web", nil)
	require.True(t, isError)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "tool.read_emails", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("aide.tool", "read_emails"))
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, "tool.search_web", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Status().Description, "unknown tool")
}

func TestAll_ToolNamesAndSchemas(t *testing.T) {
	all := All(&fakeEmailLister{}, &fakeCalendar{})

	var names []string
	for _, tool := range all {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description(), tool.Name())
		assert.NotEmpty(t, tool.InputSchema().Properties, tool.Name())
	}
	assert.Equal(t, []string{"read_emails", "list_calendar_events", "create_calendar_event"}, names)

	// create_calendar_event declares its mandatory fields.
	assert.Equal(t, []string{"summary", "start_time", "end_time"}, all[2].InputSchema().Required)
}
