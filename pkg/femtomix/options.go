package femtomix

import (
	"log/slog"
	"math/rand/v2"

	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
)

// DefaultMaxBufferSize is the number of samples kept per similarity category
// unless configured otherwise.
const DefaultMaxBufferSize = 10

// mixerConfig holds construction-time configuration.
// Hash and cut functions are generic and are set on the Mixer directly.
type mixerConfig struct {
	maxBufferSize int
	fixedBuffer   bool
	rng           *rand.Rand
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
}

func defaultMixerConfig() mixerConfig {
	return mixerConfig{
		maxBufferSize: DefaultMaxBufferSize,
		metrics:       observability.NoopMetrics{},
	}
}

// Option configures a Mixer at construction.
type Option func(*mixerConfig)

// WithMaxBufferSize sets the number of samples kept per category.
// Default: 10. Values below 1 are clamped to 1.
func WithMaxBufferSize(n int) Option {
	return func(c *mixerConfig) {
		c.maxBufferSize = max(n, 1)
	}
}

// WithFixedBuffer makes GetSimilarPairs wait until a category's buffer is
// full before producing background pairs.
//
// Default: false (flexible).
func WithFixedBuffer(fixed bool) Option {
	return func(c *mixerConfig) {
		c.fixedBuffer = fixed
	}
}

// WithRand sets the random source used to sample tracks into the buffer.
// Pass a seeded source for reproducible buffers.
func WithRand(rng *rand.Rand) Option {
	return func(c *mixerConfig) {
		c.rng = rng
	}
}

// WithSeed is shorthand for WithRand with a PCG source seeded from seed.
//
// Example:
//
//	mixer := femtomix.New[*demo.Event](demo.NewPair, femtomix.WithSeed(42))
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithLogger enables structured logging of buffer activity.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *mixerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}.
//
// Example:
//
//	mixer := femtomix.New[*demo.Event](demo.NewPair,
//	    femtomix.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *mixerConfig) {
		if m == nil {
			m = observability.NoopMetrics{}
		}
		c.metrics = m
	}
}
