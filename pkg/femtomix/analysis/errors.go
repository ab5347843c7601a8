package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNilMixer indicates New was called without a mixer.
	ErrNilMixer = errors.New("mixer cannot be nil")

	// ErrNilObservable indicates New was called without an observable.
	ErrNilObservable = errors.New("observable cannot be nil")

	// ErrUnknownBucket indicates a correlation request for a bucket the run
	// never filled.
	ErrUnknownBucket = errors.New("unknown pair bucket")

	// ErrEmptyHistogram indicates a correlation request where the signal or
	// background histogram has no in-range entries.
	ErrEmptyHistogram = errors.New("empty histogram")
)

// CancelledError is returned when the context is cancelled between events.
type CancelledError struct {
	// RunID identifies the cancelled run.
	RunID string
	// EventIndex is the index of the first input that was not processed.
	EventIndex int
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("run %s cancelled before event %d: %v", e.RunID, e.EventIndex, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// PersistError reports histograms that could not be saved. The run itself
// completed and its Result is valid.
type PersistError struct {
	RunID  string
	Failed int
	Err    error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	return fmt.Sprintf("run %s: %d results not saved: %v", e.RunID, e.Failed, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PersistError) Unwrap() error {
	return e.Err
}
