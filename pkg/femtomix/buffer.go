package femtomix

// sample is one stored track record. second is nil for single-species
// samples.
type sample[T any] struct {
	eventID string
	first   *T
	second  *T
}

// sampleQueue is a FIFO of samples for one similarity category.
type sampleQueue[T any] struct {
	items     []sample[T]
	evictions int
}

// push appends s and evicts from the front until at most limit samples
// remain. It returns the number of samples evicted by this call.
func (q *sampleQueue[T]) push(s sample[T], limit int) int {
	q.items = append(q.items, s)

	excess := len(q.items) - limit
	if excess <= 0 {
		return 0
	}

	// Clear evicted slots so their tracks can be collected.
	for i := 0; i < excess; i++ {
		q.items[i] = sample[T]{}
	}
	q.items = q.items[excess:]
	q.evictions += excess
	return excess
}

// collect returns the tracks of every sample not owned by eventID, column
// by column. cross is false if any collected sample lacks a second track.
func (q *sampleQueue[T]) collect(eventID string) (firsts, seconds []*T, cross bool) {
	firsts = make([]*T, 0, len(q.items))
	seconds = make([]*T, 0, len(q.items))
	cross = true
	for _, s := range q.items {
		if s.eventID == eventID {
			continue
		}
		firsts = append(firsts, s.first)
		if s.second == nil {
			cross = false
			continue
		}
		seconds = append(seconds, s.second)
	}
	return firsts, seconds, cross
}

// similarityBuffer maps category keys to sample queues.
type similarityBuffer[T any] struct {
	queues map[string]*sampleQueue[T]
}

func newSimilarityBuffer[T any]() *similarityBuffer[T] {
	return &similarityBuffer[T]{queues: make(map[string]*sampleQueue[T])}
}

// queue returns the queue for category, creating it if needed.
func (b *similarityBuffer[T]) queue(category string) *sampleQueue[T] {
	q, ok := b.queues[category]
	if !ok {
		q = &sampleQueue[T]{}
		b.queues[category] = q
	}
	return q
}

// lookup returns the queue for category without creating it.
func (b *similarityBuffer[T]) lookup(category string) (*sampleQueue[T], bool) {
	q, ok := b.queues[category]
	return q, ok
}

func (b *similarityBuffer[T]) reset() {
	b.queues = make(map[string]*sampleQueue[T])
}
