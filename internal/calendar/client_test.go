package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newMockedClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := cal.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	return NewClientFromService(svc)
}

func TestListUpcoming(t *testing.T) {
	var gotQuery map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"timeMin":      r.URL.Query().Get("timeMin"),
			"timeMax":      r.URL.Query().Get("timeMax"),
			"maxResults":   r.URL.Query().Get("maxResults"),
			"singleEvents": r.URL.Query().Get("singleEvents"),
			"orderBy":      r.URL.Query().Get("orderBy"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":      "ev1",
					"summary": "Standup",
					"start":   map[string]string{"dateTime": "2025-10-13T09:00:00Z"},
					"end":     map[string]string{"dateTime": "2025-10-13T09:15:00Z"},
				},
				{
					"id":      "ev2",
					"summary": "Design review",
					"start":   map[string]string{"dateTime": "2025-10-14T13:00:00Z"},
					"end":     map[string]string{"dateTime": "2025-10-14T14:00:00Z"},
					"attendees": []map[string]any{
						{"email": "alice@example.com"},
						{"email": "bob@example.com"},
					},
				},
			},
		})
	})

	client := newMockedClient(t, mux)
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	result, err := client.ListUpcoming(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Len(t, result.Events, result.Count)
	assert.Equal(t, "Standup", result.Events[0].Summary)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, result.Events[1].Attendees)

	// Seven day window, single events ordered by start time.
	assert.Equal(t, now.Format(time.RFC3339), gotQuery["timeMin"])
	assert.Equal(t, now.Add(upcomingWindow).Format(time.RFC3339), gotQuery["timeMax"])
	assert.Equal(t, "5", gotQuery["maxResults"])
	assert.Equal(t, "true", gotQuery["singleEvents"])
	assert.Equal(t, "startTime", gotQuery["orderBy"])
}

func TestCreateEvent_EchoesFieldsVerbatim(t *testing.T) {
	var inserts int
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		inserts++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "created-1",
			"htmlLink": "https://calendar.google.com/event?eid=created-1",
		})
	})

	client := newMockedClient(t, mux)

	created, err := client.CreateEvent(context.Background(), EventInput{
		Summary:     "Planning",
		Start:       "2025-10-24T10:00:00Z",
		End:         "2025-10-24T11:00:00Z",
		Description: "Q4 planning session",
		Location:    "Room 2",
		Attendees:   []string{"alice@example.com"},
	})
	require.NoError(t, err)

	// Exactly one insert call with fields echoed to the provider schema.
	assert.Equal(t, 1, inserts)
	assert.Equal(t, "Planning", gotBody["summary"])
	assert.Equal(t, "Q4 planning session", gotBody["description"])
	assert.Equal(t, "Room 2", gotBody["location"])

	start := gotBody["start"].(map[string]any)
	assert.Equal(t, "2025-10-24T10:00:00Z", start["dateTime"])
	assert.Equal(t, "UTC", start["timeZone"])
	end := gotBody["end"].(map[string]any)
	assert.Equal(t, "2025-10-24T11:00:00Z", end["dateTime"])

	attendees := gotBody["attendees"].([]any)
	require.Len(t, attendees, 1)
	assert.Equal(t, "alice@example.com", attendees[0].(map[string]any)["email"])

	assert.Equal(t, "created-1", created.EventID)
	assert.Equal(t, "https://calendar.google.com/event?eid=created-1", created.HTMLLink)
}

func TestCreateEvent_RejectsInvalidInput(t *testing.T) {
	// No HTTP handler: any API call would fail the test.
	client := newMockedClient(t, http.NewServeMux())

	tests := []struct {
		name  string
		input EventInput
		want  string
	}{
		{
			name:  "missing summary",
			input: EventInput{Start: "2025-10-24T10:00:00Z", End: "2025-10-24T11:00:00Z"},
			want:  "summary",
		},
		{
			name:  "malformed start",
			input: EventInput{Summary: "X", Start: "tomorrow", End: "2025-10-24T11:00:00Z"},
			want:  "invalid start time",
		},
		{
			name:  "malformed end",
			input: EventInput{Summary: "X", Start: "2025-10-24T10:00:00Z", End: "later"},
			want:  "invalid end time",
		},
		{
			name:  "start equals end",
			input: EventInput{Summary: "X", Start: "2025-10-24T10:00:00Z", End: "2025-10-24T10:00:00Z"},
			want:  "must be before",
		},
		{
			name:  "start after end",
			input: EventInput{Summary: "X", Start: "2025-10-24T12:00:00Z", End: "2025-10-24T11:00:00Z"},
			want:  "must be before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateEvent(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToEventSummary(t *testing.T) {
	summary := toEventSummary(nil)
	assert.Equal(t, "No Title", summary.Summary)

	summary = toEventSummary(&cal.Event{
		Id:    "allday",
		Start: &cal.EventDateTime{Date: "2025-10-20"},
		End:   &cal.EventDateTime{Date: "2025-10-21"},
	})
	assert.Equal(t, "2025-10-20", summary.Start)
	assert.Equal(t, "2025-10-21", summary.End)
	assert.Equal(t, "No Title", summary.Summary)
}

func TestParseEventTime(t *testing.T) {
	// RFC 3339 and the zone-less ISO form both appear in agent output.
	for _, value := range []string{"2025-10-24T10:00:00Z", "2025-10-24T10:00:00"} {
		_, err := parseEventTime(value)
		assert.NoError(t, err, value)
	}

	_, err := parseEventTime("next tuesday")
	assert.Error(t, err)
}
