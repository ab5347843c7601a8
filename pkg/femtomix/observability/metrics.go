package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Pair kinds used as the "kind" metric attribute.
const (
	KindSignal     = "signal"
	KindBackground = "background"
)

// MetricsRecorder records femtomix metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEventAdded records a sample stored in a category buffer.
	// species is 1 for AddEvent and 2 for the cross-species entry points.
	RecordEventAdded(ctx context.Context, category string, species int)

	// RecordEviction records samples dropped from a full category buffer.
	RecordEviction(ctx context.Context, category string, n int)

	// RecordOccupancy records the number of samples held by a category after an insertion.
	RecordOccupancy(ctx context.Context, category string, stored int)

	// RecordPairs records pairs produced into one bucket.
	RecordPairs(ctx context.Context, kind, bucket string, n int)

	// RecordAnalysisRun records an analysis run completion.
	RecordAnalysisRun(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	eventsAdded     metric.Int64Counter
	evictions       metric.Int64Counter
	occupancy       metric.Int64Histogram
	signalPairs     metric.Int64Counter
	backgroundPairs metric.Int64Counter
	analysisRuns    metric.Int64Counter
	analysisLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("femtomix")

	eventsAdded, err := meter.Int64Counter("femtomix.events.added",
		metric.WithDescription("Number of event samples stored in mixing buffers"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter("femtomix.buffer.evictions",
		metric.WithDescription("Number of samples evicted from mixing buffers"),
	)
	if err != nil {
		return nil, err
	}

	occupancy, err := meter.Int64Histogram("femtomix.buffer.occupancy",
		metric.WithDescription("Samples held by a category buffer after insertion"),
	)
	if err != nil {
		return nil, err
	}

	signalPairs, err := meter.Int64Counter("femtomix.pairs.signal",
		metric.WithDescription("Number of same-event pairs produced"),
	)
	if err != nil {
		return nil, err
	}

	backgroundPairs, err := meter.Int64Counter("femtomix.pairs.background",
		metric.WithDescription("Number of mixed-event pairs produced"),
	)
	if err != nil {
		return nil, err
	}

	analysisRuns, err := meter.Int64Counter("femtomix.analysis.runs",
		metric.WithDescription("Number of analysis runs"),
	)
	if err != nil {
		return nil, err
	}

	analysisLatency, err := meter.Float64Histogram("femtomix.analysis.latency_ms",
		metric.WithDescription("Analysis run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		eventsAdded:     eventsAdded,
		evictions:       evictions,
		occupancy:       occupancy,
		signalPairs:     signalPairs,
		backgroundPairs: backgroundPairs,
		analysisRuns:    analysisRuns,
		analysisLatency: analysisLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEventAdded records a stored sample.
func (m *otelMetrics) RecordEventAdded(ctx context.Context, category string, species int) {
	m.eventsAdded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.Int("species", species),
	))
}

// RecordEviction records evicted samples.
func (m *otelMetrics) RecordEviction(ctx context.Context, category string, n int) {
	m.evictions.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordOccupancy records buffer occupancy.
func (m *otelMetrics) RecordOccupancy(ctx context.Context, category string, stored int) {
	m.occupancy.Record(ctx, int64(stored), metric.WithAttributes(
		attribute.String("category", category),
	))
}

// RecordPairs records produced pairs. Unknown kinds are ignored.
func (m *otelMetrics) RecordPairs(ctx context.Context, kind, bucket string, n int) {
	attrs := metric.WithAttributes(attribute.String("bucket", bucket))
	switch kind {
	case KindSignal:
		m.signalPairs.Add(ctx, int64(n), attrs)
	case KindBackground:
		m.backgroundPairs.Add(ctx, int64(n), attrs)
	}
}

// RecordAnalysisRun records an analysis run.
func (m *otelMetrics) RecordAnalysisRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.analysisRuns.Add(ctx, 1, attrs)
	m.analysisLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
