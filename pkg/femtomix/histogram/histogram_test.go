package histogram

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinning_Validate(t *testing.T) {
	tests := []struct {
		name string
		b    Binning
		ok   bool
	}{
		{"valid", Binning{Bins: 10, Min: 0, Max: 1}, true},
		{"negative range", Binning{Bins: 4, Min: -2, Max: -1}, true},
		{"no bins", Binning{Bins: 0, Min: 0, Max: 1}, false},
		{"empty range", Binning{Bins: 5, Min: 1, Max: 1}, false},
		{"inverted", Binning{Bins: 5, Min: 2, Max: 1}, false},
		{"nan", Binning{Bins: 5, Min: math.NaN(), Max: 1}, false},
		{"inf", Binning{Bins: 5, Min: 0, Max: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidBinning)
			_, err = New(tt.b)
			assert.ErrorIs(t, err, ErrInvalidBinning)
		})
	}
}

func TestEdgesAndCenters(t *testing.T) {
	h := MustNew(Binning{Bins: 4, Min: 0, Max: 2})
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, h.Edges())
	assert.Equal(t, []float64{0.25, 0.75, 1.25, 1.75}, h.Centers())
	assert.Equal(t, 0.5, h.Binning().Width())
}

func TestFill(t *testing.T) {
	h := MustNew(Binning{Bins: 4, Min: 0, Max: 2})
	for _, x := range []float64{-0.1, 0, 0.49, 0.5, 1.99, 2, 3, math.NaN()} {
		h.Fill(x)
	}

	assert.Equal(t, []float64{2, 1, 0, 1}, h.Counts())
	assert.Equal(t, 1.0, h.Underflow())
	assert.Equal(t, 3.0, h.Overflow())
	assert.Equal(t, 8, h.Entries())
	assert.Equal(t, 4.0, h.Integral())
}

func TestFillN_MatchesFill(t *testing.T) {
	xs := []float64{0.7, -1, 0.1, 1.5, 0.5, 2.5, 0.5, 1.0, 0.0, 1.999}
	original := append([]float64(nil), xs...)

	a := MustNew(Binning{Bins: 4, Min: 0, Max: 2})
	for _, x := range xs {
		a.Fill(x)
	}
	b := MustNew(Binning{Bins: 4, Min: 0, Max: 2})
	b.FillN(xs[:4])
	b.FillN(xs[4:])

	if diff := cmp.Diff(a.Snapshot(), b.Snapshot()); diff != "" {
		t.Errorf("FillN differs from Fill (-fill +fillN):\n%s", diff)
	}
	assert.Equal(t, original, xs, "FillN must not reorder its input")
}

func TestFillN_OutOfRangeOnly(t *testing.T) {
	h := MustNew(Binning{Bins: 2, Min: 0, Max: 1})
	h.FillN([]float64{-1, 5})
	h.FillN(nil)
	assert.Equal(t, []float64{0, 0}, h.Counts())
	assert.Equal(t, 2, h.Entries())
}

func TestMean(t *testing.T) {
	h := MustNew(Binning{Bins: 4, Min: 0, Max: 4})
	assert.True(t, math.IsNaN(h.Mean()))

	h.FillN([]float64{0.5, 3.5, 3.2})
	assert.InDelta(t, (0.5+3.5+3.5)/3, h.Mean(), 1e-12)
}

func TestAdd(t *testing.T) {
	a := MustNew(Binning{Bins: 2, Min: 0, Max: 1})
	b := MustNew(Binning{Bins: 2, Min: 0, Max: 1})
	a.FillN([]float64{0.1, 2})
	b.FillN([]float64{0.1, 0.9, -1})

	require.NoError(t, a.Add(b))
	assert.Equal(t, []float64{2, 1}, a.Counts())
	assert.Equal(t, 1.0, a.Underflow())
	assert.Equal(t, 1.0, a.Overflow())
	assert.Equal(t, 5, a.Entries())

	c := MustNew(Binning{Bins: 3, Min: 0, Max: 1})
	assert.ErrorIs(t, a.Add(c), ErrBinningMismatch)
}

func TestDivide(t *testing.T) {
	sig := MustNew(Binning{Bins: 3, Min: 0, Max: 3})
	bkg := MustNew(Binning{Bins: 3, Min: 0, Max: 3})
	sig.FillN([]float64{0.5, 0.5, 1.5, 2.5})
	bkg.FillN([]float64{0.5, 1.5, 1.5, 1.5})

	ratio, err := sig.Divide(bkg, 2)
	require.NoError(t, err)
	// third bin has no background
	assert.Equal(t, []float64{4, 2.0 / 3, 0}, ratio.Counts())

	_, err = sig.Divide(MustNew(Binning{Bins: 3, Min: 0, Max: 4}), 1)
	assert.ErrorIs(t, err, ErrBinningMismatch)
}

func TestReset(t *testing.T) {
	h := MustNew(Binning{Bins: 2, Min: 0, Max: 1})
	h.FillN([]float64{-1, 0.2, 7})
	h.Reset()
	assert.Zero(t, h.Integral())
	assert.Zero(t, h.Underflow())
	assert.Zero(t, h.Overflow())
	assert.Zero(t, h.Entries())
}

func TestSnapshotRoundTrip(t *testing.T) {
	h := MustNew(Binning{Bins: 3, Min: -1, Max: 1})
	h.FillN([]float64{-2, -0.5, 0, 0.9, 1})

	back, err := FromSnapshot(h.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, h.Snapshot(), back.Snapshot())

	s := h.Snapshot()
	s.Counts = s.Counts[:2]
	_, err = FromSnapshot(s)
	assert.ErrorIs(t, err, ErrBinningMismatch)

	_, err = FromSnapshot(Snapshot{})
	assert.ErrorIs(t, err, ErrInvalidBinning)
}

func TestPlot(t *testing.T) {
	sig := MustNew(Binning{Bins: 10, Min: 0, Max: 1})
	bkg := MustNew(Binning{Bins: 10, Min: 0, Max: 1})
	sig.FillN([]float64{0.05, 0.15, 0.15, 0.55})
	bkg.FillN([]float64{0.15, 0.55, 0.95})

	var buf bytes.Buffer
	err := Plot(&buf, PlotOptions{Title: "C(qinv)", XLabel: "qinv"}, map[string]*Histogram{
		"signal":     sig,
		"background": bkg,
	})
	require.NoError(t, err)
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), buf.Bytes()[:8])

	assert.ErrorIs(t, Plot(&buf, PlotOptions{}, nil), ErrNoSeries)
}

func TestSavePlot(t *testing.T) {
	h := MustNew(Binning{Bins: 5, Min: 0, Max: 1})
	h.FillN([]float64{0.1, 0.3, 0.3})

	path := filepath.Join(t.TempDir(), "c.png")
	require.NoError(t, SavePlot(path, PlotOptions{Title: "t"}, map[string]*Histogram{"h": h}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
