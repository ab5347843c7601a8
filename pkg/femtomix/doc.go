/*
Package femtomix builds same-event and mixed-event track pairs for
two-particle correlation analyses.

# Overview

A correlation function compares the distribution of a pair observable in
pairs taken from one event (the signal) with the same distribution in pairs
whose tracks come from different events (the background). Background pairs
carry no physical correlation, so the ratio isolates it.

femtomix keeps, for every similarity category of events, a bounded buffer
of track samples from recent events. Each new event contributes one
randomly drawn track to its category's buffer and receives its own pairs
back. Background pairs are built from the buffered tracks of the other
events in the same category.

The Mixer is generic over the caller's types:

  - E is the event, anything with an ID() string method
  - T is the track record
  - P is the pair record, built by a PairFunc[T, P]

# Basic Usage

	mixer := femtomix.New[*demo.Event](demo.NewPair,
	    femtomix.WithMaxBufferSize(20),
	    femtomix.WithSeed(42))
	mixer.SetEventHashFunc(demo.CentralityHash)

	for _, e := range events {
	    signal := mixer.AddEvent(e, e.Tracks)
	    background, err := mixer.GetSimilarPairs(e)
	    if err != nil {
	        log.Fatal(err)
	    }
	    fill(signal["0"], background["0"])
	}

GetSimilarPairs must follow AddEvent for the same event. Asking for a
category that never received an event returns a *CategoryError wrapping
ErrUnknownCategory.

# Categories, Buckets and Cuts

Three caller-supplied functions shape the result:

  - EventHashFunc assigns an event to a similarity category. Only events of
    one category are mixed with each other.
  - PairHashFunc assigns a pair to a bucket, e.g. a kT range.
  - PairCutFunc rejects pairs. Rejected pairs land in the RejectedCategory
    bucket ("bad") instead of being dropped.

Unset functions put everything in DefaultCategory ("0") and reject nothing.
Pairs keep their relative order within a bucket.

# Buffer Policy

Each category holds at most MaxBufferSize samples; the oldest is evicted
first. With the flexible policy (default) background is mixed from whatever
is buffered. With the fixed policy nothing is mixed until the buffer is
full; BackgroundReady reports which case applies.

# Two Species

AddEventCross stores one track of each species and mixes first-species
tracks of one event with second-species tracks of another. AddEventSplit
splits a single list in half. When a category holds a mix of single- and
two-species samples, background falls back to single-species pairing.

# Configuration

Settings load from YAML, JSON and FEMTOMIX_ environment variables through
the config package. Hash and cut functions are referenced by name and
resolved through a Catalog:

	cat := demo.NewCatalog()
	settings, err := config.Load("femtomix.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	mixer, err := femtomix.NewFromSettings[*demo.Event](demo.NewPair, settings.Mixer, cat)

Pair cuts may be written as expressions over named pair variables, for
example "qinv < 0.005 or kt > 1.2". See package cut.

# Observability

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	mixer := femtomix.New[*demo.Event](demo.NewPair,
	    femtomix.WithLogger(logger),
	    femtomix.WithMetrics(observability.NewMetricsRecorder()))

Buffer events are logged at debug level with category, stored and capacity.
OpenTelemetry metrics: femtomix.events.added, femtomix.buffer.evictions,
femtomix.buffer.occupancy, femtomix.pairs.signal, femtomix.pairs.background.

# Thread Safety

  - Mixer is NOT safe for concurrent use
  - Catalog registries ARE safe for concurrent use
  - results.Store implementations ARE safe for concurrent use

# Subpackages

  - analysis: runs a Mixer over events and fills histograms
  - histogram: fixed-binning histograms and PNG plots
  - results: histogram storage (memory, SQLite)
  - config: layered settings and validation
  - cut: pair-cut expressions
  - registry: named function lookup
  - observability: logging, metrics and tracing helpers
  - demo: a small event model for examples and tests
*/
package femtomix
