package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the capture tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("capture")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartFlushSpan starts a span for one flush attempt.
	StartFlushSpan(ctx context.Context, trigger string, pending int) (context.Context, trace.Span)

	// StartDeliverSpan starts a span for one batch delivery.
	// The deliver span should be a child of the flush span.
	StartDeliverSpan(ctx context.Context, batchID string, batchSize int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartFlushSpan starts a span for one flush attempt.
func (m *otelSpanManager) StartFlushSpan(ctx context.Context, trigger string, pending int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "capture.flush",
		trace.WithAttributes(
			attribute.String("flush.trigger", trigger),
			attribute.Int("queue.pending", pending),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartDeliverSpan starts a span for one batch delivery.
func (m *otelSpanManager) StartDeliverSpan(ctx context.Context, batchID string, batchSize int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "capture.deliver",
		trace.WithAttributes(
			attribute.String("batch.id", batchID),
			attribute.Int("batch.size", batchSize),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
