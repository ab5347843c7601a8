// Package histogram provides fixed-width one-dimensional histograms of pair
// observables and correlation-function plots.
//
// Binning uses gonum's stat.Histogram; values outside [Min, Max) are kept
// as underflow and overflow counts. A Snapshot is the serialisable form
// used by the results store.
//
//	h, err := histogram.New(histogram.Binning{Bins: 50, Min: 0, Max: 0.5})
//	h.FillN(qinv)
//	ratio, err := signal.Divide(background, background.Integral()/signal.Integral())
//
// Histograms are not safe for concurrent use.
package histogram
