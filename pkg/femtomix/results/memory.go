package results

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps results in memory. Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]map[recordKey]storedRecord
	closed bool
}

type recordKey struct {
	kind   string
	bucket string
}

type storedRecord struct {
	data    []byte
	entries int
	savedAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]map[recordKey]storedRecord),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(runID string, rec Record) error {
	if err := validate(runID, rec); err != nil {
		return err
	}
	data, err := encode(rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if m.runs[runID] == nil {
		m.runs[runID] = make(map[recordKey]storedRecord)
	}
	m.runs[runID][recordKey{rec.Kind, rec.Bucket}] = storedRecord{
		data:    data,
		entries: rec.Histogram.Entries,
		savedAt: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID, kind, bucket string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}
	stored, ok := m.runs[runID][recordKey{kind, bucket}]
	if !ok {
		return Record{}, ErrNotFound
	}
	return decode(stored.data)
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	run := m.runs[runID]
	infos := make([]Info, 0, len(run))
	for key, stored := range run {
		infos = append(infos, Info{
			RunID:   runID,
			Kind:    key.kind,
			Bucket:  key.bucket,
			Entries: stored.entries,
			SavedAt: stored.savedAt,
			Size:    int64(len(stored.data)),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := strings.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.Bucket, b.Bucket)
	})
	return infos, nil
}

// Runs implements Store.
func (m *MemoryStore) Runs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	ids := make([]string, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.runs, runID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.runs = nil
	return nil
}
