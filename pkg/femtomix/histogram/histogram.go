package histogram

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sentinel errors.
var (
	// ErrInvalidBinning indicates a Binning with no bins or an empty range.
	ErrInvalidBinning = errors.New("invalid binning")

	// ErrBinningMismatch indicates an operation on histograms with
	// different binnings.
	ErrBinningMismatch = errors.New("binning mismatch")
)

// Binning describes Bins equal-width bins covering [Min, Max).
type Binning struct {
	Bins int     `json:"bins"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Validate returns an error wrapping ErrInvalidBinning if b is unusable.
func (b Binning) Validate() error {
	switch {
	case b.Bins < 1:
		return fmt.Errorf("%w: %d bins", ErrInvalidBinning, b.Bins)
	case math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0):
		return fmt.Errorf("%w: non-finite range [%g, %g)", ErrInvalidBinning, b.Min, b.Max)
	case b.Max <= b.Min:
		return fmt.Errorf("%w: empty range [%g, %g)", ErrInvalidBinning, b.Min, b.Max)
	}
	return nil
}

// Width returns the width of one bin.
func (b Binning) Width() float64 {
	return (b.Max - b.Min) / float64(b.Bins)
}

// Histogram counts values in fixed-width bins.
type Histogram struct {
	binning   Binning
	edges     []float64
	counts    []float64
	underflow float64
	overflow  float64
	entries   int
}

// New creates an empty histogram.
func New(b Binning) (*Histogram, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	edges := floats.Span(make([]float64, b.Bins+1), b.Min, b.Max)
	return &Histogram{
		binning: b,
		edges:   edges,
		counts:  make([]float64, b.Bins),
	}, nil
}

// MustNew is like New but panics on an invalid binning.
func MustNew(b Binning) *Histogram {
	h, err := New(b)
	if err != nil {
		panic(err)
	}
	return h
}

// Binning returns the histogram's binning.
func (h *Histogram) Binning() Binning { return h.binning }

// Fill adds one entry. NaN counts as overflow.
func (h *Histogram) Fill(x float64) {
	h.entries++
	switch {
	case x < h.edges[0]:
		h.underflow++
	case math.IsNaN(x) || x >= h.edges[len(h.edges)-1]:
		h.overflow++
	default:
		h.counts[h.bin(x)]++
	}
}

// bin returns the index of the bin containing an in-range x.
func (h *Histogram) bin(x float64) int {
	i, exact := slices.BinarySearch(h.edges, x)
	if exact {
		return i
	}
	return i - 1
}

// FillN adds every value in xs. xs is not modified.
func (h *Histogram) FillN(xs []float64) {
	if len(xs) == 0 {
		return
	}
	h.entries += len(xs)

	sorted := make([]float64, 0, len(xs))
	for _, x := range xs {
		switch {
		case x < h.edges[0]:
			h.underflow++
		case math.IsNaN(x) || x >= h.edges[len(h.edges)-1]:
			h.overflow++
		default:
			sorted = append(sorted, x)
		}
	}
	if len(sorted) == 0 {
		return
	}
	slices.Sort(sorted)
	floats.Add(h.counts, stat.Histogram(nil, h.edges, sorted, nil))
}

// Counts returns a copy of the in-range bin contents.
func (h *Histogram) Counts() []float64 { return slices.Clone(h.counts) }

// Edges returns a copy of the Bins+1 bin edges.
func (h *Histogram) Edges() []float64 { return slices.Clone(h.edges) }

// Centers returns the bin centres.
func (h *Histogram) Centers() []float64 {
	centers := make([]float64, len(h.counts))
	for i := range centers {
		centers[i] = (h.edges[i] + h.edges[i+1]) / 2
	}
	return centers
}

// Underflow returns the number of entries below Min.
func (h *Histogram) Underflow() float64 { return h.underflow }

// Overflow returns the number of entries at or above Max, and NaNs.
func (h *Histogram) Overflow() float64 { return h.overflow }

// Entries returns the number of Fill calls, in range or not.
func (h *Histogram) Entries() int { return h.entries }

// Integral returns the sum of the in-range bin contents.
func (h *Histogram) Integral() float64 { return floats.Sum(h.counts) }

// Mean returns the count-weighted mean of the bin centres, or NaN for an
// empty histogram.
func (h *Histogram) Mean() float64 {
	if h.Integral() == 0 {
		return math.NaN()
	}
	return stat.Mean(h.Centers(), h.counts)
}

// Add accumulates other into h.
func (h *Histogram) Add(other *Histogram) error {
	if h.binning != other.binning {
		return fmt.Errorf("add: %w", ErrBinningMismatch)
	}
	floats.Add(h.counts, other.counts)
	h.underflow += other.underflow
	h.overflow += other.overflow
	h.entries += other.entries
	return nil
}

// Divide returns a histogram whose bins hold norm * h[i] / other[i].
// Bins where other is empty are zero.
func (h *Histogram) Divide(other *Histogram, norm float64) (*Histogram, error) {
	if h.binning != other.binning {
		return nil, fmt.Errorf("divide: %w", ErrBinningMismatch)
	}
	out := MustNew(h.binning)
	for i, den := range other.counts {
		if den != 0 {
			out.counts[i] = norm * h.counts[i] / den
		}
	}
	out.entries = h.entries
	return out, nil
}

// Reset clears every count.
func (h *Histogram) Reset() {
	clear(h.counts)
	h.underflow, h.overflow, h.entries = 0, 0, 0
}

// Snapshot is the serialisable state of a Histogram.
type Snapshot struct {
	Binning   Binning   `json:"binning"`
	Counts    []float64 `json:"counts"`
	Underflow float64   `json:"underflow"`
	Overflow  float64   `json:"overflow"`
	Entries   int       `json:"entries"`
}

// Snapshot returns a copy of the histogram's state.
func (h *Histogram) Snapshot() Snapshot {
	return Snapshot{
		Binning:   h.binning,
		Counts:    h.Counts(),
		Underflow: h.underflow,
		Overflow:  h.overflow,
		Entries:   h.entries,
	}
}

// FromSnapshot rebuilds a Histogram.
func FromSnapshot(s Snapshot) (*Histogram, error) {
	h, err := New(s.Binning)
	if err != nil {
		return nil, err
	}
	if len(s.Counts) != s.Binning.Bins {
		return nil, fmt.Errorf("%w: %d counts for %d bins", ErrBinningMismatch, len(s.Counts), s.Binning.Bins)
	}
	copy(h.counts, s.Counts)
	h.underflow = s.Underflow
	h.overflow = s.Overflow
	h.entries = s.Entries
	return h, nil
}
