package femtomix

import (
	"errors"
	"fmt"
)

// Sentinel errors for buffer lookups.
var (
	// ErrUnknownCategory indicates background pairs were requested for an
	// event whose category never received an event through AddEvent.
	ErrUnknownCategory = errors.New("similarity category not registered")
)

// CategoryError wraps errors from similarity-buffer lookups.
type CategoryError struct {
	// Category is the event hash that was looked up.
	Category string
	// EventID identifies the event the lookup was made for.
	EventID string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	return fmt.Sprintf("category %q (event %s): %v", e.Category, e.EventID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CategoryError) Unwrap() error {
	return e.Err
}
