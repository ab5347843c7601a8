package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{buf: &bytes.Buffer{}, level: slog.LevelDebug}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{buf: h.buf, level: h.level}
	newH.attrs = append(append(newH.attrs, h.attrs...), attrs...)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) lastRecord() map[string]any {
	lines := bytes.Split(bytes.TrimSpace(h.buf.Bytes()), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		return nil
	}
	return m
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds run_id and analysis", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "run-123", "pion-hbt")
		enriched.Info("mixing")

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "run-123", record["run_id"])
		assert.Equal(t, "pion-hbt", record["analysis"])
		assert.Equal(t, "mixing", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "run-123", "x"))
	})
}

func TestLogEventAdded(t *testing.T) {
	h := newTestHandler()
	LogEventAdded(slog.New(h), "evt-1", "3", 4, 10)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "event buffered", record["msg"])
	assert.Equal(t, "evt-1", record["event_id"])
	assert.Equal(t, "3", record["category"])
	assert.Equal(t, float64(4), record["stored"])
	assert.Equal(t, float64(10), record["capacity"])
}

func TestLogEviction(t *testing.T) {
	h := newTestHandler()
	LogEviction(slog.New(h), "0", 1, 7)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "buffer eviction", record["msg"])
	assert.Equal(t, float64(1), record["evicted"])
	assert.Equal(t, float64(7), record["evictions_total"])
}

func TestLogUnknownCategory(t *testing.T) {
	h := newTestHandler()
	LogUnknownCategory(slog.New(h), "9", "evt-x")

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "9", record["category"])
	assert.Equal(t, "evt-x", record["event_id"])
}

func TestLogRunLifecycle(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogRunStart(logger, "run-1", 100)
	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "analysis run starting", record["msg"])
	assert.Equal(t, float64(100), record["events"])

	LogRunComplete(logger, "run-1", 12.5, 100, 1500, 900)
	record = h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "analysis run completed", record["msg"])
	assert.Equal(t, 12.5, record["duration_ms"])
	assert.Equal(t, float64(1500), record["signal_pairs"])
	assert.Equal(t, float64(900), record["background_pairs"])

	LogRunError(logger, "run-1", errors.New("boom"), 3, 42)
	record = h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, float64(42), record["event_index"])
}

func TestLogResult(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogResultSaved(logger, "run-1", "signal", "0")
	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "result saved", record["msg"])

	LogResultError(logger, "run-1", "background", "0", errors.New("disk full"))
	record = h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "disk full", record["error"])
}

func TestLogHelpers_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogEventAdded(nil, "e", "0", 1, 1)
		LogEviction(nil, "0", 1, 1)
		LogBackgroundSkipped(nil, "0", 1, 2)
		LogUnknownCategory(nil, "0", "e")
		LogRunStart(nil, "r", 0)
		LogRunComplete(nil, "r", 0, 0, 0, 0)
		LogRunError(nil, "r", errors.New("x"), 0, 0)
		LogResultSaved(nil, "r", "k", "b")
		LogResultError(nil, "r", "k", "b", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), float64(5))
}
