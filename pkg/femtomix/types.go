package femtomix

// Reserved category keys.
const (
	// DefaultCategory is the key every event and pair hashes to when no
	// hashing function is configured.
	DefaultCategory = "0"

	// RejectedCategory collects pairs for which the cut function returned true.
	RejectedCategory = "bad"
)

// Event is the constraint on the event type a Mixer is instantiated with.
// ID must be stable for the lifetime of the event and unique between events.
type Event interface {
	ID() string
}

// PairFunc builds a pair from two tracks. The first argument is the
// "first" particle of the pair; implementations must accept tracks in
// either order.
type PairFunc[T any, P any] func(first, second *T) *P

// EventHashFunc maps an event to its similarity category.
type EventHashFunc[E any] func(event E) string

// PairHashFunc maps a pair to its output bucket.
type PairHashFunc[P any] func(pair *P) string

// PairCutFunc reports whether a pair should be rejected.
// Rejected pairs are routed to RejectedCategory.
type PairCutFunc[P any] func(pair *P) bool

// PairMap groups pairs by bucket key. Within a bucket pairs keep the order
// in which they were generated.
type PairMap[P any] map[string][]*P

// Len returns the total number of pairs across all buckets.
func (m PairMap[P]) Len() int {
	n := 0
	for _, pairs := range m {
		n += len(pairs)
	}
	return n
}

// Accepted returns the number of pairs outside RejectedCategory.
func (m PairMap[P]) Accepted() int {
	return m.Len() - len(m[RejectedCategory])
}

func defaultEventHash[E any](E) string { return DefaultCategory }

func defaultPairHash[P any](*P) string { return DefaultCategory }

func defaultPairCut[P any](*P) bool { return false }
