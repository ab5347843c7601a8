package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/randalmurphal/femtomix/pkg/femtomix/histogram"
)

// Result holds the histograms and counters of one run.
type Result struct {
	RunID string

	// Signal and Background hold one histogram per accepted pair bucket.
	Signal     map[string]*histogram.Histogram
	Background map[string]*histogram.Histogram

	Events             int
	SignalPairs        int
	BackgroundPairs    int
	RejectedSignal     int
	RejectedBackground int
	// SkippedBackground counts events for which the fixed-buffer policy
	// withheld background pairs.
	SkippedBackground int

	Duration time.Duration
}

func newResult(runID string) *Result {
	return &Result{
		RunID:      runID,
		Signal:     make(map[string]*histogram.Histogram),
		Background: make(map[string]*histogram.Histogram),
	}
}

// Buckets returns every bucket with a signal or background histogram, sorted.
func (r *Result) Buckets() []string {
	seen := make(map[string]struct{}, len(r.Signal)+len(r.Background))
	for b := range r.Signal {
		seen[b] = struct{}{}
	}
	for b := range r.Background {
		seen[b] = struct{}{}
	}
	return sortedKeys(seen)
}

// Correlation returns the correlation function of bucket,
//
//	C(x) = (S(x) / B(x)) * (integral(B) / integral(S))
//
// so that C is 1 where signal and background have the same shape.
func (r *Result) Correlation(bucket string) (*histogram.Histogram, error) {
	sig, okS := r.Signal[bucket]
	bkg, okB := r.Background[bucket]
	if !okS || !okB {
		return nil, fmt.Errorf("correlation %q: %w", bucket, ErrUnknownBucket)
	}

	ns, nb := sig.Integral(), bkg.Integral()
	if ns == 0 || nb == 0 {
		return nil, fmt.Errorf("correlation %q: %w", bucket, ErrEmptyHistogram)
	}
	return sig.Divide(bkg, nb/ns)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
