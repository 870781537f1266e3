package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aide-assistant/aide/internal/calendar"
	"github.com/aide-assistant/aide/internal/gmail"
	"github.com/aide-assistant/aide/internal/instrumentation"
	"github.com/aide-assistant/aide/internal/logging"
	"github.com/aide-assistant/aide/internal/tools"
)

const (
	defaultMaxTokens = 4096

	// maxToolTurns bounds the tool-use loop. The hosted agent normally
	// finishes in two or three turns; the bound is a safety stop against
	// a model that keeps requesting tools.
	maxToolTurns = 10
)

// messagesAPI is the slice of the Anthropic client the assistant uses.
// Tests substitute a scripted implementation.
type messagesAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Config holds the assistant's agent-runtime settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// Assistant forwards natural-language requests to the hosted agent
// runtime and executes the tool invocations it requests.
type Assistant struct {
	messages   messagesAPI
	model      anthropic.Model
	maxTokens  int64
	dispatcher *tools.Dispatcher
	emails     tools.EmailLister
	cal        tools.CalendarService
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// New creates an Assistant talking to the Anthropic API.
func New(cfg Config, emails tools.EmailLister, cal tools.CalendarService, logger logging.Logger, metrics *instrumentation.Metrics) *Assistant {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return newAssistant(&client.Messages, cfg, emails, cal, logger, metrics)
}

func newAssistant(messages messagesAPI, cfg Config, emails tools.EmailLister, cal tools.CalendarService, logger logging.Logger, metrics *instrumentation.Metrics) *Assistant {
	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Assistant{
		messages:   messages,
		model:      anthropic.Model(cfg.Model),
		maxTokens:  maxTokens,
		dispatcher: tools.NewDispatcher(tools.All(emails, cal), logger),
		emails:     emails,
		cal:        cal,
		logger:     logger,
		metrics:    metrics,
	}
}

// Query sends a single user request to the hosted agent and returns its
// final text answer, dispatching any tool invocations along the way.
func (a *Assistant) Query(ctx context.Context, prompt string) (text string, err error) {
	ctx, span := instrumentation.StartAgentSpan(ctx, string(a.model))
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordAgentQuery(ctx, time.Since(start), err == nil)
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
	}()

	msgs := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}
	toolParams := a.toolParams()

	for turn := 0; turn < maxToolTurns; turn++ {
		msg, err := a.messages.New(ctx, anthropic.MessageNewParams{
			Model:     a.model,
			MaxTokens: a.maxTokens,
			System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages:  msgs,
			Tools:     toolParams,
		})
		if err != nil {
			return "", fmt.Errorf("agent request: %w", err)
		}

		var turnText strings.Builder
		var results []anthropic.ContentBlockParamUnion
		for _, block := range msg.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				turnText.WriteString(variant.Text)
			case anthropic.ToolUseBlock:
				args := json.RawMessage(variant.JSON.Input.Raw())
				a.logger.Debug("agent requested tool", "tool", variant.Name)

				result, isError := a.dispatcher.Dispatch(ctx, variant.Name, args)
				a.metrics.RecordToolInvocation(ctx, variant.Name, !isError)
				results = append(results, anthropic.NewToolResultBlock(variant.ID, result, isError))
			}
		}

		if msg.StopReason != "tool_use" || len(results) == 0 {
			return turnText.String(), nil
		}

		msgs = append(msgs, msg.ToParam())
		msgs = append(msgs, anthropic.NewUserMessage(results...))
	}

	return "", fmt.Errorf("agent did not produce a final answer after %d tool turns", maxToolTurns)
}

// toolParams declares the tool schemas for the agent runtime.
func (a *Assistant) toolParams() []anthropic.ToolUnionParam {
	all := a.dispatcher.Tools()
	params := make([]anthropic.ToolUnionParam, 0, len(all))
	for _, t := range all {
		schema := t.InputSchema()
		tool := anthropic.ToolParam{
			Name:        t.Name(),
			Description: anthropic.String(t.Description()),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema.Properties,
				Required:   schema.Required,
			},
		}
		params = append(params, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return params
}

// ReadRecentEmails reads emails directly, without a model round-trip.
func (a *Assistant) ReadRecentEmails(ctx context.Context, maxResults int64, query string) (*gmail.ListResult, error) {
	return a.emails.ListRecent(ctx, query, maxResults)
}

// UpcomingEvents lists upcoming calendar events directly.
func (a *Assistant) UpcomingEvents(ctx context.Context, maxResults int64) (*calendar.ListResult, error) {
	return a.cal.ListUpcoming(ctx, maxResults)
}

// ScheduleEvent creates a calendar event directly.
func (a *Assistant) ScheduleEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	return a.cal.CreateEvent(ctx, input)
}
