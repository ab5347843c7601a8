/*
Package analysis drives a femtomix Mixer over a sequence of events and
accumulates signal and background histograms of a pair observable.

# Overview

For every input event Run:

 1. adds the event to the mixer (AddEvent, or AddEventCross when the input
    carries a second track collection) and collects its signal pairs
 2. asks the mixer for background pairs from similar events
 3. fills one signal and one background histogram per pair bucket

Pairs in the rejected bucket are counted, not histogrammed. When the run
completes, the histograms can be persisted to a results.Store and turned
into a correlation function with Result.Correlation.

# Usage

	a, err := analysis.New("pion-hbt", mixer, demo.QInv,
	    histogram.Binning{Bins: 50, Min: 0, Max: 0.5},
	    analysis.WithLogger(logger))
	if err != nil {
	    return err
	}

	res, err := a.Run(ctx, inputs, analysis.WithStore(store))
	if err != nil {
	    return err
	}
	c, err := res.Correlation("0")

# Cancellation

Run checks ctx between events. A cancelled run returns a *CancelledError
carrying the index of the first event that was not processed, together
with the partial Result.

# Concurrency

An Analysis owns its Mixer and is not safe for concurrent use. Run
independent analyses, each with its own Mixer, in separate goroutines.
*/
package analysis
