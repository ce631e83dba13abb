package metrics

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"requirements-assistant-be/pkg/llm"
)

const meterName = "conversation-metrics"

// ConversationMetrics collects state machine and LLM call metrics
type ConversationMetrics struct {
	transitionsCounter    metric.Int64Counter
	llmCallsCounter       metric.Int64Counter
	llmFailuresCounter    metric.Int64Counter
	llmDurationHistogram  metric.Float64Histogram
	requirementsCounter   metric.Int64Counter
	lockContentionCounter metric.Int64Counter
}

var _ llm.CallRecorder = &ConversationMetrics{}

// NewConversationMetrics registers the instruments on the global meter
// provider installed by tracer.InitMeter.
func NewConversationMetrics() (*ConversationMetrics, error) {
	return NewConversationMetricsWithProvider(otel.GetMeterProvider())
}

func NewConversationMetricsWithProvider(provider metric.MeterProvider) (*ConversationMetrics, error) {
	meter := provider.Meter(meterName)

	transitionsCounter, err := meter.Int64Counter(
		"requirements_assistant.conversation.transitions",
		metric.WithDescription("Stage transitions applied to project conversations"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	llmCallsCounter, err := meter.Int64Counter(
		"requirements_assistant.llm.calls",
		metric.WithDescription("Total number of LLM calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	llmFailuresCounter, err := meter.Int64Counter(
		"requirements_assistant.llm.failures",
		metric.WithDescription("LLM calls that failed or timed out"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	llmDurationHistogram, err := meter.Float64Histogram(
		"requirements_assistant.llm.duration",
		metric.WithDescription("Duration of LLM calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requirementsCounter, err := meter.Int64Counter(
		"requirements_assistant.requirements.written",
		metric.WithDescription("Requirements inserted by replace or append"),
		metric.WithUnit("{requirement}"),
	)
	if err != nil {
		return nil, err
	}

	lockContentionCounter, err := meter.Int64Counter(
		"requirements_assistant.conversation.lock_contention",
		metric.WithDescription("Requests rejected because the project conversation was busy"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &ConversationMetrics{
		transitionsCounter:    transitionsCounter,
		llmCallsCounter:       llmCallsCounter,
		llmFailuresCounter:    llmFailuresCounter,
		llmDurationHistogram:  llmDurationHistogram,
		requirementsCounter:   requirementsCounter,
		lockContentionCounter: lockContentionCounter,
	}, nil
}

// RecordTransition records a stage change. from may be empty for a project's first snapshot.
func (m *ConversationMetrics) RecordTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.transitionsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("stage.from", from),
			attribute.String("stage.to", to),
		),
	)
}

func (m *ConversationMetrics) RecordLLMCall(ctx context.Context, purpose string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		errorType := "other"
		if errors.Is(err, llm.ErrUnavailable) {
			errorType = "unavailable"
		}
		m.llmFailuresCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("llm.purpose", purpose),
				attribute.String("error.type", errorType),
			),
		)
	}
	m.llmCallsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("llm.purpose", purpose),
			attribute.String("status", status),
		),
	)
	m.llmDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("llm.purpose", purpose),
			attribute.String("status", status),
		),
	)
}

// RecordRequirementsWritten records how many requirements a mutation inserted
func (m *ConversationMetrics) RecordRequirementsWritten(ctx context.Context, mode string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.requirementsCounter.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("mode", mode)),
	)
}

func (m *ConversationMetrics) RecordLockContention(ctx context.Context) {
	if m == nil {
		return
	}
	m.lockContentionCounter.Add(ctx, 1)
}
