package femtomix

// SetMaxBufferSize sets the number of samples kept per category.
// Values below 1 are clamped to 1. A smaller size takes effect on the next
// insertion into each category.
func (m *Mixer[E, T, P]) SetMaxBufferSize(n int) {
	m.maxBufferSize = max(n, 1)
}

// MaxBufferSize returns the number of samples kept per category.
func (m *Mixer[E, T, P]) MaxBufferSize() int {
	return m.maxBufferSize
}

// SetFixedBuffer chooses whether mixing waits for a full buffer (true) or
// uses whatever the buffer holds (false).
func (m *Mixer[E, T, P]) SetFixedBuffer(fixed bool) {
	m.fixedBuffer = fixed
}

// FixedBuffer reports whether mixing waits for a full buffer.
func (m *Mixer[E, T, P]) FixedBuffer() bool {
	return m.fixedBuffer
}

// SetEventHashFunc sets the function assigning events to similarity
// categories. Passing nil restores the default.
func (m *Mixer[E, T, P]) SetEventHashFunc(fn EventHashFunc[E]) {
	if fn == nil {
		m.eventHash, m.eventHashDefined = defaultEventHash[E], false
		return
	}
	m.eventHash, m.eventHashDefined = fn, true
}

// EventHash returns the similarity category of event.
func (m *Mixer[E, T, P]) EventHash(event E) string {
	return m.eventHash(event)
}

// SetPairHashFunc sets the function assigning pairs to output buckets.
// Passing nil restores the default.
func (m *Mixer[E, T, P]) SetPairHashFunc(fn PairHashFunc[P]) {
	if fn == nil {
		m.pairHash, m.pairHashDefined = defaultPairHash[P], false
		return
	}
	m.pairHash, m.pairHashDefined = fn, true
}

// PairHash returns the bucket pair would be sorted into if accepted.
func (m *Mixer[E, T, P]) PairHash(pair *P) string {
	return m.pairHash(pair)
}

// SetPairCutFunc sets the pair rejection function. It must return true for
// pairs that should be rejected. Passing nil restores the default, which
// accepts every pair.
func (m *Mixer[E, T, P]) SetPairCutFunc(fn PairCutFunc[P]) {
	if fn == nil {
		m.pairCut, m.pairCutDefined = defaultPairCut[P], false
		return
	}
	m.pairCut, m.pairCutDefined = fn, true
}

// PairCutResult reports whether pair is rejected by the cut function.
func (m *Mixer[E, T, P]) PairCutResult(pair *P) bool {
	return m.pairCut(pair)
}
