package femtomix

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
)

// Mixer builds signal pairs from single events and background pairs from
// tracks of different, similar events.
//
// E is the event type, T the track record and P the pair record. Tracks and
// pairs are handled by pointer: a track stored in the buffer is the same
// instance the caller passed in, and may be shared by many pairs.
//
// A Mixer is NOT safe for concurrent use. Every AddEvent mutates the buffer
// of the event's category. Use one Mixer per worker when analysing
// independent categories in parallel.
type Mixer[E Event, T any, P any] struct {
	newPair PairFunc[T, P]

	maxBufferSize int
	fixedBuffer   bool

	eventHash        EventHashFunc[E]
	eventHashDefined bool
	pairHash         PairHashFunc[P]
	pairHashDefined  bool
	pairCut          PairCutFunc[P]
	pairCutDefined   bool

	buffer  *similarityBuffer[T]
	rng     *rand.Rand
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// New creates a Mixer that builds pairs with newPair.
//
// Defaults: buffer size 10, flexible buffer, every event and pair hashed to
// DefaultCategory, no pair cut.
//
// Example:
//
//	mixer := femtomix.New[*demo.Event](demo.NewPair, femtomix.WithMaxBufferSize(20))
//	mixer.SetEventHashFunc(demo.CentralityHash)
func New[E Event, T any, P any](newPair PairFunc[T, P], opts ...Option) *Mixer[E, T, P] {
	if newPair == nil {
		panic("femtomix: pair constructor must not be nil")
	}

	cfg := defaultMixerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Mixer[E, T, P]{
		newPair:       newPair,
		maxBufferSize: cfg.maxBufferSize,
		fixedBuffer:   cfg.fixedBuffer,
		eventHash:     defaultEventHash[E],
		pairHash:      defaultPairHash[P],
		pairCut:       defaultPairCut[P],
		buffer:        newSimilarityBuffer[T](),
		rng:           cfg.rng,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
	}
}

// AddEvent registers an event whose tracks are all of one species.
//
// One track, drawn uniformly at random, is stored in the buffer of the
// event's category. Storing a single representative per event keeps the
// buffer's size, and the number of background pairs, bounded.
//
// It returns the event's own pairs (the signal), sorted into buckets.
func (m *Mixer[E, T, P]) AddEvent(event E, tracks []*T) PairMap[P] {
	category := m.eventHash(event)
	q := m.buffer.queue(category)

	if len(tracks) > 0 {
		m.store(q, category, sample[T]{
			eventID: event.ID(),
			first:   m.pick(tracks),
		}, 1)
	}

	signal := m.SortPairs(MakePairs(tracks, m.newPair))
	m.recordPairs(observability.KindSignal, signal)
	return signal
}

// AddEventCross registers an event carrying two particle species.
//
// One track of each species is drawn independently and stored together.
// It returns the cross-species pairs of the event, sorted into buckets.
func (m *Mixer[E, T, P]) AddEventCross(event E, tracks1, tracks2 []*T) PairMap[P] {
	category := m.eventHash(event)
	q := m.buffer.queue(category)

	if len(tracks1) > 0 && len(tracks2) > 0 {
		m.store(q, category, sample[T]{
			eventID: event.ID(),
			first:   m.pick(tracks1),
			second:  m.pick(tracks2),
		}, 2)
	}

	signal := m.SortPairs(MakeCrossPairs(tracks1, tracks2, m.newPair))
	m.recordPairs(observability.KindSignal, signal)
	return signal
}

// AddEventSplit treats the first half of tracks (up to index len/2) as the
// first species and the rest as the second, then calls AddEventCross.
//
// This suits callers that keep two non-identical species in one list.
// It is not equivalent to AddEvent.
func (m *Mixer[E, T, P]) AddEventSplit(event E, tracks []*T) PairMap[P] {
	half := len(tracks) / 2
	return m.AddEventCross(event, tracks[:half:half], tracks[half:])
}

// GetSimilarPairs returns background pairs for event: pairs built from
// buffered tracks of the same category that did not come from event itself.
//
// With the fixed-buffer policy enabled, nothing is mixed until the category
// buffer is full and the result is an empty map. Use BackgroundReady to tell
// that case apart from a buffer holding only the event's own sample.
//
// Requesting pairs for a category that never saw AddEvent is a protocol
// violation and returns a *CategoryError wrapping ErrUnknownCategory.
func (m *Mixer[E, T, P]) GetSimilarPairs(event E) (PairMap[P], error) {
	category := m.eventHash(event)
	q, ok := m.buffer.lookup(category)
	if !ok {
		observability.LogUnknownCategory(m.logger, category, event.ID())
		return nil, &CategoryError{Category: category, EventID: event.ID(), Err: ErrUnknownCategory}
	}

	if !m.ready(q) {
		observability.LogBackgroundSkipped(m.logger, category, len(q.items), m.maxBufferSize)
		return PairMap[P]{}, nil
	}

	firsts, seconds, cross := q.collect(event.ID())

	var pairs []*P
	if cross {
		pairs = MakeCrossPairs(firsts, seconds, m.newPair)
	} else {
		pairs = MakePairs(firsts, m.newPair)
	}

	background := m.SortPairs(pairs)
	m.recordPairs(observability.KindBackground, background)
	return background, nil
}

// BackgroundReady reports whether GetSimilarPairs would mix tracks for
// event's category under the current buffer policy.
func (m *Mixer[E, T, P]) BackgroundReady(event E) (bool, error) {
	category := m.eventHash(event)
	q, ok := m.buffer.lookup(category)
	if !ok {
		return false, &CategoryError{Category: category, EventID: event.ID(), Err: ErrUnknownCategory}
	}
	return m.ready(q), nil
}

// Reset drops every buffered sample and eviction counter.
// Configuration is kept.
func (m *Mixer[E, T, P]) Reset() {
	m.buffer.reset()
}

func (m *Mixer[E, T, P]) ready(q *sampleQueue[T]) bool {
	return !m.fixedBuffer || len(q.items) >= m.maxBufferSize
}

func (m *Mixer[E, T, P]) pick(tracks []*T) *T {
	return tracks[m.rng.IntN(len(tracks))]
}

func (m *Mixer[E, T, P]) store(q *sampleQueue[T], category string, s sample[T], species int) {
	evicted := q.push(s, m.maxBufferSize)

	ctx := context.Background()
	m.metrics.RecordEventAdded(ctx, category, species)
	m.metrics.RecordOccupancy(ctx, category, len(q.items))
	observability.LogEventAdded(m.logger, s.eventID, category, len(q.items), m.maxBufferSize)

	if evicted > 0 {
		m.metrics.RecordEviction(ctx, category, evicted)
		observability.LogEviction(m.logger, category, evicted, q.evictions)
	}
}

func (m *Mixer[E, T, P]) recordPairs(kind string, pairs PairMap[P]) {
	ctx := context.Background()
	for bucket, ps := range pairs {
		m.metrics.RecordPairs(ctx, kind, bucket, len(ps))
	}
}
