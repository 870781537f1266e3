package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aide-assistant/aide/internal/instrumentation"
	"github.com/aide-assistant/aide/internal/logging"
)

// Dispatcher executes tool invocations requested by the hosted agent.
type Dispatcher struct {
	tools  []Tool
	logger logging.Logger
}

// NewDispatcher creates a dispatcher over the given tool set.
func NewDispatcher(tools []Tool, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}
	return &Dispatcher{tools: tools, logger: logger}
}

// Tools returns the tool set, in declaration order.
func (d *Dispatcher) Tools() []Tool {
	return d.tools
}

// Dispatch looks up the named tool, invokes it with the supplied
// arguments, and returns the JSON-encoded result for the next
// conversation turn. isError reports whether the result describes a
// failure; failures are never returned as Go errors, so the hosted agent
// can decide how to proceed.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (result string, isError bool) {
	ctx, span := instrumentation.StartToolSpan(ctx, name)
	defer span.End()

	for _, tool := range d.tools {
		if tool.Name() != name {
			continue
		}

		payload, err := tool.Call(ctx, args)
		if err != nil {
			d.logger.Warn("tool call failed", "tool", name, "err", err)
			instrumentation.SetSpanError(span, err)
			return errorResult(err.Error()), true
		}

		encoded, err := json.Marshal(payload)
		if err != nil {
			d.logger.Error("tool result not serializable", "tool", name, "err", err)
			instrumentation.SetSpanError(span, err)
			return errorResult(fmt.Sprintf("internal error encoding result: %v", err)), true
		}

		d.logger.Debug("tool call completed", "tool", name)
		instrumentation.SetSpanSuccess(span)
		return string(encoded), false
	}

	d.logger.Warn("unknown tool requested", "tool", name)
	instrumentation.SetSpanError(span, fmt.Errorf("unknown tool %q", name))
	return errorResult(fmt.Sprintf("unknown tool %q", name)), true
}

func errorResult(message string) string {
	encoded, _ := json.Marshal(map[string]string{
		"status":  "error",
		"message": message,
	})
	return string(encoded)
}
