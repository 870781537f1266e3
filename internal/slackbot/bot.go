package slackbot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/gmail"
	"github.com/aide-assistant/aide/internal/instrumentation"
	"github.com/aide-assistant/aide/internal/logging"
)

// mentionPattern matches Slack user mention tags like <@U12345>.
var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

// assistantAPI is the slice of the agent the bot uses.
type assistantAPI interface {
	Query(ctx context.Context, prompt string) (string, error)
	ReadRecentEmails(ctx context.Context, maxResults int64, query string) (*gmail.ListResult, error)
	UpcomingEvents(ctx context.Context, maxResults int64) (*calendar.ListResult, error)
}

// poster is the slice of the Slack client used for replies.
type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// Bot runs the assistant inside Slack's Socket Mode event loop.
type Bot struct {
	socket  *socketmode.Client
	poster  poster
	agent   assistantAPI
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

// New creates a Slack bot. botToken is the xoxb bot token, appToken the
// xapp app-level token required for Socket Mode.
func New(botToken, appToken string, assistant assistantAPI, logger logging.Logger, metrics *instrumentation.Metrics) *Bot {
	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	socket := socketmode.New(api)

	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}

	return &Bot{
		socket:  socket,
		poster:  api,
		agent:   assistant,
		logger:  logger,
		metrics: metrics,
	}
}

// Run connects to Slack and processes events until the context is
// canceled. The socket client handles reconnects itself.
func (b *Bot) Run(ctx context.Context) error {
	go b.eventLoop(ctx)

	b.logger.Info("slack bot connecting")
	return b.socket.RunContext(ctx)
}

// eventLoop drains the socket client's event channel. Events are handled
// one at a time; the bot imposes no additional queueing or backpressure.
func (b *Bot) eventLoop(ctx context.Context) {
	for evt := range b.socket.Events {
		switch evt.Type {
		case socketmode.EventTypeConnected:
			b.logger.Info("slack bot connected")
		case socketmode.EventTypeConnectionError:
			b.logger.Warn("slack connection error", "err", evt.Data)
		case socketmode.EventTypeEventsAPI:
			apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
			if !ok {
				continue
			}
			b.socket.Ack(*evt.Request)
			b.handleEventsAPI(ctx, apiEvent)
		case socketmode.EventTypeSlashCommand:
			cmd, ok := evt.Data.(slack.SlashCommand)
			if !ok {
				continue
			}
			b.socket.Ack(*evt.Request)
			b.handleSlashCommand(ctx, cmd)
		}
	}
}

func (b *Bot) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.handleMention(ctx, ev)
	case *slackevents.MessageEvent:
		b.handleMessage(ctx, ev)
	}
}

// handleMention answers @aide mentions, replying in a thread on the
// original message.
func (b *Bot) handleMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	b.metrics.RecordSlackEvent(ctx, "app_mention")

	text := strings.TrimSpace(mentionPattern.ReplaceAllString(ev.Text, ""))
	if text == "" {
		b.reply(ev.Channel, ev.TimeStamp, "Hi! How can I assist you today?")
		return
	}

	// Interim acknowledgment; agent queries can take a while.
	b.reply(ev.Channel, ev.TimeStamp, "Processing your request...")

	response, err := b.agent.Query(ctx, text)
	if err != nil {
		b.logger.Error("mention query failed", "channel", ev.Channel, "err", err)
		b.reply(ev.Channel, ev.TimeStamp, fmt.Sprintf("Sorry, I encountered an error: %v", err))
		return
	}

	b.reply(ev.Channel, ev.TimeStamp, response)
}

// handleMessage answers direct messages. Anything that is not a plain
// user DM is ignored: channel chatter, bot messages, edits and deletes.
func (b *Bot) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	if ev.ChannelType != "im" || ev.BotID != "" || ev.SubType != "" {
		return
	}

	b.metrics.RecordSlackEvent(ctx, "message")

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}

	response, err := b.agent.Query(ctx, text)
	if err != nil {
		b.logger.Error("dm query failed", "channel", ev.Channel, "err", err)
		b.reply(ev.Channel, "", fmt.Sprintf("Sorry, I encountered an error: %v", err))
		return
	}

	b.reply(ev.Channel, "", response)
}

// handleSlashCommand answers /assistant. The "emails" and "calendar"
// keywords skip the model and hit the tool backends directly; everything
// else is a general agent query.
func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	b.metrics.RecordSlackEvent(ctx, "slash_command")

	text := strings.TrimSpace(cmd.Text)
	switch strings.ToLower(text) {
	case "":
		b.reply(cmd.ChannelID, "", usageText)
	case "emails":
		b.reply(cmd.ChannelID, "", b.unreadEmailsSummary(ctx))
	case "calendar":
		b.reply(cmd.ChannelID, "", b.upcomingEventsSummary(ctx))
	default:
		response, err := b.agent.Query(ctx, text)
		if err != nil {
			b.logger.Error("slash command query failed", "channel", cmd.ChannelID, "err", err)
			b.reply(cmd.ChannelID, "", fmt.Sprintf("Sorry, I encountered an error: %v", err))
			return
		}
		b.reply(cmd.ChannelID, "", response)
	}
}

const usageText = "*Available commands:*\n" +
	"• `/assistant emails` - Check recent unread emails\n" +
	"• `/assistant calendar` - View upcoming events\n" +
	"• `/assistant schedule [details]` - Schedule a new event\n" +
	"• `/assistant [question]` - Ask any question"

func (b *Bot) unreadEmailsSummary(ctx context.Context) string {
	result, err := b.agent.ReadRecentEmails(ctx, 5, "is:unread")
	if err != nil || result.Count == 0 {
		if err != nil {
			b.logger.Warn("unread email listing failed", "err", err)
		}
		return "No unread emails found or unable to access Gmail."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d unread emails:\n", result.Count)
	for _, email := range result.Emails {
		fmt.Fprintf(&sb, "• *%s* from %s\n", email.Subject, email.From)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) upcomingEventsSummary(ctx context.Context) string {
	result, err := b.agent.UpcomingEvents(ctx, 5)
	if err != nil || result.Count == 0 {
		if err != nil {
			b.logger.Warn("event listing failed", "err", err)
		}
		return "No upcoming events found or unable to access Calendar."
	}

	var sb strings.Builder
	sb.WriteString("Upcoming events:\n")
	for _, event := range result.Events {
		fmt.Fprintf(&sb, "• *%s* - %s\n", event.Summary, event.Start)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// reply posts text to a channel, threading when threadTS is set.
func (b *Bot) reply(channelID, threadTS, text string) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}

	if _, _, err := b.poster.PostMessage(channelID, options...); err != nil {
		b.logger.Error("failed to post message", "channel", channelID, "err", err)
	}
}
