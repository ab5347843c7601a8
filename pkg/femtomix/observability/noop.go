package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordEventAdded does nothing.
func (NoopMetrics) RecordEventAdded(_ context.Context, _ string, _ int) {}

// RecordEviction does nothing.
func (NoopMetrics) RecordEviction(_ context.Context, _ string, _ int) {}

// RecordOccupancy does nothing.
func (NoopMetrics) RecordOccupancy(_ context.Context, _ string, _ int) {}

// RecordPairs does nothing.
func (NoopMetrics) RecordPairs(_ context.Context, _, _ string, _ int) {}

// RecordAnalysisRun does nothing.
func (NoopMetrics) RecordAnalysisRun(_ context.Context, _ bool, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartRunSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRunSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartEventSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartEventSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
