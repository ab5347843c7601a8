package analysis

import (
	"log/slog"

	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/results"
)

type analysisConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

func defaultAnalysisConfig() analysisConfig {
	return analysisConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures an Analysis.
type Option func(*analysisConfig)

// WithLogger enables run logging. A nil logger disables it.
func WithLogger(logger *slog.Logger) Option {
	return func(c *analysisConfig) {
		c.logger = logger
	}
}

// WithMetrics records run counts and latency.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *analysisConfig) {
		if m == nil {
			m = observability.NoopMetrics{}
		}
		c.metrics = m
	}
}

// WithTracing enables OpenTelemetry spans for runs and events.
func WithTracing(enabled bool) Option {
	return func(c *analysisConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *analysisConfig) {
		if sm == nil {
			sm = observability.NoopSpanManager{}
		}
		c.spans = sm
	}
}

type runConfig struct {
	runID       string
	store       results.Store
	correlation bool
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

// WithRunID sets the run id. Default: a random UUID.
func WithRunID(id string) RunOption {
	return func(c *runConfig) {
		c.runID = id
	}
}

// WithStore saves every histogram of the run to store when the run
// completes. Cancelled runs save nothing.
func WithStore(store results.Store) RunOption {
	return func(c *runConfig) {
		c.store = store
	}
}

// WithCorrelation also saves the correlation function of every bucket that
// has both signal and background entries. It only has an effect together
// with WithStore.
func WithCorrelation(enabled bool) RunOption {
	return func(c *runConfig) {
		c.correlation = enabled
	}
}
