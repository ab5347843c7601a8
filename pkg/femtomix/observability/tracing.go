package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("femtomix")

// SpanManager handles trace span lifecycle for analysis runs.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRunSpan starts a span covering a whole analysis run.
	StartRunSpan(ctx context.Context, analysis, runID string) (context.Context, trace.Span)

	// StartEventSpan starts a child span for one event.
	StartEventSpan(ctx context.Context, eventID, category string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for the entire analysis run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, analysis, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "femtomix.run",
		trace.WithAttributes(
			attribute.String("analysis.name", analysis),
			attribute.String("run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartEventSpan starts a span for one event.
func (m *otelSpanManager) StartEventSpan(ctx context.Context, eventID, category string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "femtomix.event",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
			attribute.String("event.category", category),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
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

// AddSpanEvent adds an event to the span in ctx, if it is recording.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
