package llm

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("llm")

// CallRecorder receives the outcome of every LLM call.
type CallRecorder interface {
	RecordLLMCall(ctx context.Context, purpose string, duration time.Duration, err error)
}

type purposeKey struct{}

// WithPurpose tags ctx so the instrumented provider can label spans, logs and metrics.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

func purposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return "unspecified"
}

// InstrumentedProvider wraps an LLMProvider with tracing, a conversation log and metrics.
type InstrumentedProvider struct {
	inner    LLMProvider
	traceLog *log.Logger
	recorder CallRecorder
}

var _ LLMProvider = &InstrumentedProvider{}

func NewInstrumentedProvider(inner LLMProvider, traceLog *log.Logger, recorder CallRecorder) *InstrumentedProvider {
	return &InstrumentedProvider{inner: inner, traceLog: traceLog, recorder: recorder}
}

func (p *InstrumentedProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	purpose := purposeFrom(ctx)
	ctx, span := tracer.Start(ctx, "llm.chat")
	defer span.End()

	promptLen := 0
	for _, m := range history {
		promptLen += len(m.Content)
	}
	span.SetAttributes(
		attribute.String("llm.purpose", purpose),
		attribute.Int("llm.prompt_length", promptLen),
	)

	start := time.Now()
	out, err := p.inner.Chat(ctx, history, options...)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("llm.response_length", len(out)))
	}

	if p.traceLog != nil {
		if err != nil {
			p.traceLog.Printf("[%s] prompt=%d chars, failed after %s: %v", purpose, promptLen, elapsed, err)
		} else {
			p.traceLog.Printf("[%s] prompt=%d chars, response=%d chars, took %s", purpose, promptLen, len(out), elapsed)
		}
	}
	if p.recorder != nil {
		p.recorder.RecordLLMCall(ctx, purpose, elapsed, err)
	}
	return out, err
}

func (p *InstrumentedProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
