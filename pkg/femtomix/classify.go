package femtomix

// SortPairs distributes pairs into buckets.
//
// Each pair is first checked against the cut function; rejected pairs go to
// RejectedCategory whatever their hash. Accepted pairs go to the bucket named
// by the pair hash function. Every input pair lands in exactly one bucket and
// keeps its relative order there.
func (m *Mixer[E, T, P]) SortPairs(pairs []*P) PairMap[P] {
	buckets := make(PairMap[P])
	for _, pair := range pairs {
		key := RejectedCategory
		if !m.pairCut(pair) {
			key = m.pairHash(pair)
		}
		buckets[key] = append(buckets[key], pair)
	}
	return buckets
}
