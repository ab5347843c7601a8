package femtomix

import (
	"fmt"
	"strconv"
)

// testEvent is a minimal Event with an explicit category.
type testEvent struct {
	id       string
	category string
}

func (e *testEvent) ID() string { return e.id }

func newTestEvent(id, category string) *testEvent {
	return &testEvent{id: id, category: category}
}

// testTrack carries an index and the event it was created in.
type testTrack struct {
	idx   int
	event string
}

// testPair remembers the tracks in construction order.
type testPair struct {
	first  *testTrack
	second *testTrack
}

func newTestPair(first, second *testTrack) *testPair {
	return &testPair{first: first, second: second}
}

func categoryHash(e *testEvent) string { return e.category }

func makeTracks(event string, n int) []*testTrack {
	tracks := make([]*testTrack, n)
	for i := range tracks {
		tracks[i] = &testTrack{idx: i, event: event}
	}
	return tracks
}

// unorderedKey identifies a pair regardless of construction direction.
func unorderedKey(p *testPair) string {
	a, b := p.first.idx, p.second.idx
	if a > b {
		a, b = b, a
	}
	return strconv.Itoa(a) + "-" + strconv.Itoa(b)
}

func pairEvents(p *testPair) string {
	return fmt.Sprintf("%s|%s", p.first.event, p.second.event)
}

func newTestMixer(opts ...Option) *Mixer[*testEvent, testTrack, testPair] {
	opts = append([]Option{WithSeed(1)}, opts...)
	return New[*testEvent](newTestPair, opts...)
}
