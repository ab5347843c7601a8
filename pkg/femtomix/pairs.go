package femtomix

// PairCount returns the number of pairs MakePairs emits for n tracks.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// CrossPairCount returns the number of pairs MakeCrossPairs emits for
// collections of n1 and n2 tracks: the full cross product without the
// index diagonal.
func CrossPairCount(n1, n2 int) int {
	if n1 <= 0 || n2 <= 0 {
		return 0
	}
	return min(n1, n2) * (max(n1, n2) - 1)
}

// MakePairs builds every unordered pair of distinct tracks exactly once.
//
// The direction of construction alternates between consecutive pairs:
// the first pair is newPair(tracks[i], tracks[j]) with i < j, the next one
// swaps its arguments, and so on. Upstream track sorting (by momentum, for
// instance) would otherwise leak into every asymmetric pair observable.
//
// Fewer than two tracks yields an empty slice.
func MakePairs[T any, P any](tracks []*T, newPair PairFunc[T, P]) []*P {
	n := len(tracks)
	if n < 2 {
		return []*P{}
	}

	pairs := make([]*P, 0, PairCount(n))
	reverse := false
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if reverse {
				pairs = append(pairs, newPair(tracks[j], tracks[i]))
			} else {
				pairs = append(pairs, newPair(tracks[i], tracks[j]))
			}
			reverse = !reverse
		}
	}
	return pairs
}

// MakeCrossPairs builds pairs across two track collections.
//
// All index combinations (i, j) are used except i == j. Skipping the
// diagonal is what background construction needs: both collections are
// filled column-wise from the same stored samples, so index i on either
// side came from the same past event. The direction alternates exactly as in
// MakePairs.
//
// If either collection is empty the result is empty.
func MakeCrossPairs[T any, P any](tracks1, tracks2 []*T, newPair PairFunc[T, P]) []*P {
	n1, n2 := len(tracks1), len(tracks2)
	if n1 == 0 || n2 == 0 {
		return []*P{}
	}

	pairs := make([]*P, 0, CrossPairCount(n1, n2))
	reverse := false
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			if i == j {
				continue
			}
			if reverse {
				pairs = append(pairs, newPair(tracks2[j], tracks1[i]))
			} else {
				pairs = append(pairs, newPair(tracks1[i], tracks2[j]))
			}
			reverse = !reverse
		}
	}
	return pairs
}
