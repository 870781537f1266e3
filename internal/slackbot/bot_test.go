package slackbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/gmail"
	"github.com/aide-assistant/aide/internal/logging"
)

// postRecorder captures outbound messages.
type postRecorder struct {
	channels []string
	options  [][]slack.MsgOption
	err      error
}

func (r *postRecorder) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	r.channels = append(r.channels, channelID)
	r.options = append(r.options, options)
	return channelID, "1234.5678", r.err
}

// fakeAssistant returns canned answers and records prompts.
type fakeAssistant struct {
	prompts   []string
	answer    string
	queryErr  error
	emails    *gmail.ListResult
	emailsErr error
	events    *calendar.ListResult
	eventsErr error
}

func (f *fakeAssistant) Query(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.queryErr
}

func (f *fakeAssistant) ReadRecentEmails(ctx context.Context, maxResults int64, query string) (*gmail.ListResult, error) {
	return f.emails, f.emailsErr
}

func (f *fakeAssistant) UpcomingEvents(ctx context.Context, maxResults int64) (*calendar.ListResult, error) {
	return f.events, f.eventsErr
}

func newTestBot(agent assistantAPI) (*Bot, *postRecorder) {
	recorder := &postRecorder{}
	return &Bot{
		poster: recorder,
		agent:  agent,
		logger: logging.Discard(),
	}, recorder
}

// renderedText extracts the text of the nth posted message.
func renderedText(t *testing.T, recorder *postRecorder, n int) string {
	t.Helper()
	require.Greater(t, len(recorder.options), n)

	_, values, err := slack.UnsafeApplyMsgOptions("token", "channel", "https://slack.example.com/api/", recorder.options[n]...)
	require.NoError(t, err)
	return values.Get("text")
}

func TestHandleMention(t *testing.T) {
	agent := &fakeAssistant{answer: "Your next meeting is at 10am."}
	bot, recorder := newTestBot(agent)

	bot.handleMention(context.Background(), &slackevents.AppMentionEvent{
		Text:      "<@U0BOT> what's my next meeting?",
		Channel:   "C1",
		TimeStamp: "111.222",
	})

	// The mention tag is stripped before the text reaches the agent.
	require.Len(t, agent.prompts, 1)
	assert.Equal(t, "what's my next meeting?", agent.prompts[0])

	// An acknowledgment goes out before the answer, both in the thread.
	require.Equal(t, []string{"C1", "C1"}, recorder.channels)
	assert.Equal(t, "Processing your request...", renderedText(t, recorder, 0))
	assert.Equal(t, "Your next meeting is at 10am.", renderedText(t, recorder, 1))
}

func TestHandleMention_EmptyText(t *testing.T) {
	agent := &fakeAssistant{}
	bot, recorder := newTestBot(agent)

	bot.handleMention(context.Background(), &slackevents.AppMentionEvent{
		Text:      "<@U0BOT>",
		Channel:   "C1",
		TimeStamp: "111.222",
	})

	// A bare mention gets a greeting, not an agent call.
	assert.Empty(t, agent.prompts)
	require.Len(t, recorder.channels, 1)
	assert.Contains(t, renderedText(t, recorder, 0), "How can I assist you")
}

func TestHandleMention_AgentError(t *testing.T) {
	agent := &fakeAssistant{queryErr: errors.New("model overloaded")}
	bot, recorder := newTestBot(agent)

	bot.handleMention(context.Background(), &slackevents.AppMentionEvent{
		Text:    "<@U0BOT> hello",
		Channel: "C1",
	})

	require.Len(t, recorder.channels, 2)
	assert.Contains(t, renderedText(t, recorder, 1), "Sorry, I encountered an error")
}

func TestHandleMessage_DirectMessage(t *testing.T) {
	agent := &fakeAssistant{answer: "Done."}
	bot, recorder := newTestBot(agent)

	bot.handleMessage(context.Background(), &slackevents.MessageEvent{
		ChannelType: "im",
		Channel:     "D1",
		Text:        "schedule lunch tomorrow",
	})

	require.Len(t, agent.prompts, 1)
	assert.Equal(t, "schedule lunch tomorrow", agent.prompts[0])
	assert.Equal(t, []string{"D1"}, recorder.channels)
}

func TestHandleMessage_Ignored(t *testing.T) {
	tests := []struct {
		name  string
		event slackevents.MessageEvent
	}{
		{
			name:  "channel message",
			event: slackevents.MessageEvent{ChannelType: "channel", Text: "hi"},
		},
		{
			name:  "bot message",
			event: slackevents.MessageEvent{ChannelType: "im", BotID: "B1", Text: "hi"},
		},
		{
			name:  "edited message",
			event: slackevents.MessageEvent{ChannelType: "im", SubType: "message_changed", Text: "hi"},
		},
		{
			name:  "empty text",
			event: slackevents.MessageEvent{ChannelType: "im", Text: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &fakeAssistant{}
			bot, recorder := newTestBot(agent)

			bot.handleMessage(context.Background(), &tt.event)

			// No agent call and no outbound reply, and no crash.
			assert.Empty(t, agent.prompts)
			assert.Empty(t, recorder.channels)
		})
	}
}

func TestHandleSlashCommand_Usage(t *testing.T) {
	bot, recorder := newTestBot(&fakeAssistant{})

	bot.handleSlashCommand(context.Background(), slack.SlashCommand{
		Command:   "/assistant",
		ChannelID: "C1",
	})

	require.Len(t, recorder.channels, 1)
	text := renderedText(t, recorder, 0)
	assert.Contains(t, text, "/assistant emails")
	assert.Contains(t, text, "/assistant calendar")
	assert.Contains(t, text, "/assistant schedule [details]")
}

func TestHandleSlashCommand_Emails(t *testing.T) {
	agent := &fakeAssistant{
		emails: &gmail.ListResult{
			Count: 2,
			Emails: []gmail.EmailSummary{
				{Subject: "Invoice", From: "billing@example.com", Unread: true},
				{Subject: "Standup notes", From: "team@example.com", Unread: true},
			},
		},
	}
	bot, recorder := newTestBot(agent)

	bot.handleSlashCommand(context.Background(), slack.SlashCommand{
		Command: "/assistant", Text: "emails", ChannelID: "C1",
	})

	text := renderedText(t, recorder, 0)
	assert.Contains(t, text, "2 unread emails")
	assert.Contains(t, text, "Invoice")
	assert.Contains(t, text, "billing@example.com")
}

func TestHandleSlashCommand_Calendar(t *testing.T) {
	// Scenario: /assistant calendar with two mocked events -> the reply
	// lists exactly those two events.
	agent := &fakeAssistant{
		events: &calendar.ListResult{
			Count: 2,
			Events: []calendar.EventSummary{
				{Summary: "Standup", Start: "2025-10-13T09:00:00Z"},
				{Summary: "Design review", Start: "2025-10-14T13:00:00Z"},
			},
		},
	}
	bot, recorder := newTestBot(agent)

	bot.handleSlashCommand(context.Background(), slack.SlashCommand{
		Command: "/assistant", Text: "calendar", ChannelID: "C1",
	})

	text := renderedText(t, recorder, 0)
	assert.Contains(t, text, "Upcoming events:")
	assert.Contains(t, text, "Standup")
	assert.Contains(t, text, "Design review")
	assert.Equal(t, 2, strings.Count(text, "•"))
}

func TestHandleSlashCommand_EmailsBackendError(t *testing.T) {
	agent := &fakeAssistant{emailsErr: errors.New("token expired")}
	bot, recorder := newTestBot(agent)

	bot.handleSlashCommand(context.Background(), slack.SlashCommand{
		Command: "/assistant", Text: "emails", ChannelID: "C1",
	})

	assert.Contains(t, renderedText(t, recorder, 0), "unable to access Gmail")
}

func TestHandleSlashCommand_GeneralQuery(t *testing.T) {
	agent := &fakeAssistant{answer: "It's sunny."}
	bot, recorder := newTestBot(agent)

	bot.handleSlashCommand(context.Background(), slack.SlashCommand{
		Command: "/assistant", Text: "what's the weather?", ChannelID: "C1",
	})

	require.Len(t, agent.prompts, 1)
	assert.Equal(t, "what's the weather?", agent.prompts[0])
	assert.Equal(t, "It's sunny.", renderedText(t, recorder, 0))
}
