// Package observability provides structured logging, metrics and tracing
// for femtomix mixers and analysis runs.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every LogXxx helper accepts a nil logger and does nothing in that case.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds analysis context to a logger.
// Returns a new logger with run_id and analysis fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "pion-hbt")
//	enriched.Info("mixing") // includes run_id, analysis
func EnrichLogger(logger *slog.Logger, runID, analysis string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("analysis", analysis),
	)
}

// LogEventAdded logs a sample being stored in a category buffer.
func LogEventAdded(logger *slog.Logger, eventID, category string, stored, capacity int) {
	if logger == nil {
		return
	}
	logger.Debug("event buffered",
		slog.String("event_id", eventID),
		slog.String("category", category),
		slog.Int("stored", stored),
		slog.Int("capacity", capacity),
	)
}

// LogEviction logs samples dropped from the front of a category buffer.
func LogEviction(logger *slog.Logger, category string, evicted, total int) {
	if logger == nil {
		return
	}
	logger.Debug("buffer eviction",
		slog.String("category", category),
		slog.Int("evicted", evicted),
		slog.Int("evictions_total", total),
	)
}

// LogBackgroundSkipped logs a background request refused by the
// fixed-buffer policy.
func LogBackgroundSkipped(logger *slog.Logger, category string, stored, capacity int) {
	if logger == nil {
		return
	}
	logger.Debug("background skipped, buffer not full",
		slog.String("category", category),
		slog.Int("stored", stored),
		slog.Int("capacity", capacity),
	)
}

// LogUnknownCategory logs a background request for a category that never
// received an event.
func LogUnknownCategory(logger *slog.Logger, category, eventID string) {
	if logger == nil {
		return
	}
	logger.Error("background requested for unknown category",
		slog.String("category", category),
		slog.String("event_id", eventID),
	)
}

// LogRunStart logs the start of an analysis run.
func LogRunStart(logger *slog.Logger, runID string, events int) {
	if logger == nil {
		return
	}
	logger.Info("analysis run starting",
		slog.String("run_id", runID),
		slog.Int("events", events),
	)
}

// LogRunComplete logs successful analysis completion.
func LogRunComplete(logger *slog.Logger, runID string, durationMs float64, events, signalPairs, backgroundPairs int) {
	if logger == nil {
		return
	}
	logger.Info("analysis run completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("events", events),
		slog.Int("signal_pairs", signalPairs),
		slog.Int("background_pairs", backgroundPairs),
	)
}

// LogRunError logs analysis failure.
func LogRunError(logger *slog.Logger, runID string, err error, durationMs float64, eventIndex int) {
	if logger == nil {
		return
	}
	logger.Error("analysis run failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("event_index", eventIndex),
	)
}

// LogResultSaved logs a histogram persisted to a results store.
func LogResultSaved(logger *slog.Logger, runID, kind, bucket string) {
	if logger == nil {
		return
	}
	logger.Debug("result saved",
		slog.String("run_id", runID),
		slog.String("kind", kind),
		slog.String("bucket", bucket),
	)
}

// LogResultError logs a failure to persist a result (non-fatal).
func LogResultError(logger *slog.Logger, runID, kind, bucket string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("result save failed",
		slog.String("run_id", runID),
		slog.String("kind", kind),
		slog.String("bucket", bucket),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
