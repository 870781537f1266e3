// Package instrumentation provides the observability surface for aide.
//
// Metrics are recorded through the OpenTelemetry metric API; traces go
// through the OpenTelemetry trace API. Exporters are selected by
// configuration (Prometheus, OTLP or stdout for metrics; OTLP, stdout
// or none for traces). All Record methods are nil-safe, so components
// can carry an optional *Metrics without guarding every call site.
package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrTool   = "tool"
	attrResult = "result"
	attrEvent  = "event"
)

// Metrics records aide's observability metrics.
type Metrics struct {
	agentQueriesTotal    metric.Int64Counter
	agentQueryDuration   metric.Float64Histogram
	toolInvocationsTotal metric.Int64Counter
	slackEventsTotal     metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.agentQueriesTotal, err = meter.Int64Counter(
		"agent_queries_total",
		metric.WithDescription("Total number of agent queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_queries_total counter: %w", err)
	}

	m.agentQueryDuration, err = meter.Float64Histogram(
		"agent_query_duration_seconds",
		metric.WithDescription("Agent query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_query_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of tool invocations requested by the agent"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.slackEventsTotal, err = meter.Int64Counter(
		"slack_events_total",
		metric.WithDescription("Total number of Slack events handled"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create slack_events_total counter: %w", err)
	}

	return m, nil
}

// RecordAgentQuery records one agent query with its duration and outcome.
func (m *Metrics) RecordAgentQuery(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrResult, resultLabel(success)))
	m.agentQueriesTotal.Add(ctx, 1, attrs)
	m.agentQueryDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records one tool invocation by name and outcome.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool string, success bool) {
	if m == nil {
		return
	}
	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrResult, resultLabel(success)),
	))
}

// RecordSlackEvent records one handled Slack event by type.
func (m *Metrics) RecordSlackEvent(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.slackEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrEvent, eventType),
	))
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
