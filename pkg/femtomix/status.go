package femtomix

import (
	"fmt"
	"io"
	"sort"
)

// Settings is a snapshot of a Mixer's configuration.
type Settings struct {
	MaxBufferSize    int
	FixedBuffer      bool
	EventHashDefined bool
	PairHashDefined  bool
	PairCutDefined   bool
}

// CategoryStatus describes the buffer of one similarity category.
type CategoryStatus struct {
	Category  string
	Stored    int
	Capacity  int
	Evictions int
}

// Full reports whether the category buffer holds its maximum number of samples.
func (s CategoryStatus) Full() bool {
	return s.Stored >= s.Capacity
}

// Settings returns the current configuration.
func (m *Mixer[E, T, P]) Settings() Settings {
	return Settings{
		MaxBufferSize:    m.maxBufferSize,
		FixedBuffer:      m.fixedBuffer,
		EventHashDefined: m.eventHashDefined,
		PairHashDefined:  m.pairHashDefined,
		PairCutDefined:   m.pairCutDefined,
	}
}

// Status returns the occupancy of every category buffer, sorted by category.
func (m *Mixer[E, T, P]) Status() []CategoryStatus {
	out := make([]CategoryStatus, 0, len(m.buffer.queues))
	for category, q := range m.buffer.queues {
		out = append(out, CategoryStatus{
			Category:  category,
			Stored:    len(q.items),
			Capacity:  m.maxBufferSize,
			Evictions: q.evictions,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// Evictions returns the number of samples evicted from category so far.
// Unknown categories report zero.
func (m *Mixer[E, T, P]) Evictions(category string) int {
	if q, ok := m.buffer.lookup(category); ok {
		return q.evictions
	}
	return 0
}

// Stored returns the number of samples currently held for category.
func (m *Mixer[E, T, P]) Stored(category string) int {
	if q, ok := m.buffer.lookup(category); ok {
		return len(q.items)
	}
	return 0
}

// PrintSettings writes a human-readable summary of the configuration to w.
func (m *Mixer[E, T, P]) PrintSettings(w io.Writer) error {
	s := m.Settings()
	policy := "FLEXIBLE"
	if s.FixedBuffer {
		policy = "FIXED"
	}

	_, err := fmt.Fprintf(w,
		"\n------=========== femtomix Settings ===========------\n"+
			"Max Background Mixing Buffer Size: %d (%s)\n"+
			"Event Hashing Function: %s\n"+
			"Pair Hashing Function: %s\n"+
			"Pair Rejection Function: %s\n"+
			"------==========================================------\n\n",
		s.MaxBufferSize, policy,
		definedLabel(s.EventHashDefined),
		definedLabel(s.PairHashDefined),
		definedLabel(s.PairCutDefined),
	)
	return err
}

// PrintStatus writes per-category buffer occupancy and eviction counts to w.
func (m *Mixer[E, T, P]) PrintStatus(w io.Writer) error {
	if _, err := io.WriteString(w, "\n------============ femtomix Status ============------\nCurrently stored events:\n"); err != nil {
		return err
	}
	for _, st := range m.Status() {
		if _, err := fmt.Fprintf(w, "%d/%d\t event hash: %s\t evicted: %d\n",
			st.Stored, st.Capacity, st.Category, st.Evictions); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "------==========================================------\n\n")
	return err
}

func definedLabel(defined bool) string {
	if defined {
		return "User-defined"
	}
	return "Not set"
}
