// Package results persists the histograms produced by analysis runs.
//
// A run stores one Record per (kind, bucket): the signal and background
// distributions of each pair bucket, and optionally their correlation
// ratio. Records are encoded as JSON, so stores never share memory with
// callers.
package results

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/randalmurphal/femtomix/pkg/femtomix/histogram"
)

// Record kinds.
const (
	KindSignal      = "signal"
	KindBackground  = "background"
	KindCorrelation = "correlation"
)

// Store persists analysis results.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores rec under runID, replacing any record with the same
	// kind and bucket.
	Save(runID string, rec Record) error

	// Load retrieves one record.
	// Returns ErrNotFound if it doesn't exist.
	Load(runID, kind, bucket string) (Record, error)

	// List returns metadata for every record of a run, ordered by kind
	// then bucket. Returns an empty slice (not error) for unknown runs.
	List(runID string) ([]Info, error)

	// Runs returns the ids of all stored runs in sorted order.
	Runs() ([]string, error)

	// DeleteRun removes all records of a run.
	// Returns nil if the run has no records.
	DeleteRun(runID string) error

	// Close releases any resources.
	Close() error
}

// Record is one stored histogram.
type Record struct {
	Kind      string             `json:"kind"`
	Bucket    string             `json:"bucket"`
	Histogram histogram.Snapshot `json:"histogram"`
}

// Info describes a stored record without decoding it.
type Info struct {
	RunID   string
	Kind    string
	Bucket  string
	Entries int
	SavedAt time.Time
	Size    int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("result not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("result store closed")

	// ErrInvalidRecord indicates a record without kind or run id.
	ErrInvalidRecord = errors.New("invalid result record")
)

func validate(runID string, rec Record) error {
	if runID == "" {
		return fmt.Errorf("%w: empty run id", ErrInvalidRecord)
	}
	if rec.Kind == "" {
		return fmt.Errorf("%w: empty kind", ErrInvalidRecord)
	}
	return nil
}

func encode(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

func decode(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Restore rebuilds the stored histogram.
func (r Record) Restore() (*histogram.Histogram, error) {
	return histogram.FromSnapshot(r.Histogram)
}
