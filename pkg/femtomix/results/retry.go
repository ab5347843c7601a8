package results

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RetryPolicy controls how SQLiteStore retries writes that fail because
// another connection holds the database lock.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64
}

// DefaultRetry is used unless WithRetry says otherwise.
var DefaultRetry = RetryPolicy{
	MaxAttempts:    5,
	InitialBackoff: 10 * time.Millisecond,
	MaxBackoff:     500 * time.Millisecond,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = RetryPolicy{
	MaxAttempts: 1,
}

// retryOnBusy calls fn until it succeeds, fails with an error other than
// a lock conflict, or the policy runs out of attempts. It returns the
// number of attempts made and the last error.
func retryOnBusy(p RetryPolicy, fn func() error) (int, error) {
	attempts := max(p.MaxAttempts, 1)
	backoff := p.InitialBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return attempt, err
		}
		if attempt == attempts {
			break
		}

		time.Sleep(withJitter(backoff, p.Jitter))
		backoff = time.Duration(float64(backoff) * p.BackoffFactor)
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
	return attempts, err
}

func withJitter(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	// base +/- (base * jitter * random)
	delta := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + delta)
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		// Extended result codes keep the primary code in the low byte.
		code := serr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
