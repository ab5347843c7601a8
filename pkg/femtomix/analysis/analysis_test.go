package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/analysis"
	"github.com/randalmurphal/femtomix/pkg/femtomix/demo"
	"github.com/randalmurphal/femtomix/pkg/femtomix/histogram"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/results"
)

type (
	demoMixer    = femtomix.Mixer[*demo.Event, demo.Track, demo.Pair]
	demoInput    = analysis.Input[*demo.Event, demo.Track]
	demoAnalysis = analysis.Analysis[*demo.Event, demo.Track, demo.Pair]
)

var testBinning = histogram.Binning{Bins: 20, Min: 0, Max: 10}

func newMixer(opts ...femtomix.Option) *demoMixer {
	opts = append([]femtomix.Option{femtomix.WithSeed(1)}, opts...)
	return femtomix.New[*demo.Event](demo.NewPair, opts...)
}

func newAnalysis(t *testing.T, m *demoMixer, opts ...analysis.Option) *demoAnalysis {
	t.Helper()
	a, err := analysis.New("test", m, demo.QInv, testBinning, opts...)
	require.NoError(t, err)
	return a
}

func fixedInputs(n int) []demoInput {
	inputs := make([]demoInput, n)
	for i := range inputs {
		e := demo.FixedEvent(fmt.Sprint(i), 0, float64(i))
		inputs[i] = demoInput{Event: e, Tracks: e.Tracks}
	}
	return inputs
}

func TestNew_Errors(t *testing.T) {
	_, err := analysis.New[*demo.Event, demo.Track, demo.Pair]("x", nil, demo.QInv, testBinning)
	assert.ErrorIs(t, err, analysis.ErrNilMixer)

	_, err = analysis.New("x", newMixer(), nil, testBinning)
	assert.ErrorIs(t, err, analysis.ErrNilObservable)

	_, err = analysis.New("x", newMixer(), demo.QInv, histogram.Binning{})
	assert.ErrorIs(t, err, histogram.ErrInvalidBinning)

	a, err := analysis.New("x", newMixer(), demo.QInv, testBinning)
	require.NoError(t, err)
	assert.Equal(t, "x", a.Name())
	assert.NotNil(t, a.Mixer())
}

func TestRun_Counts(t *testing.T) {
	a := newAnalysis(t, newMixer())

	res, err := a.Run(context.Background(), fixedInputs(20))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 20, res.Events)
	assert.Equal(t, 20*15, res.SignalPairs)
	// Event i sees min(i, 9) foreign samples: sum of PairCount over them.
	assert.Equal(t, 120+10*36, res.BackgroundPairs)
	assert.Zero(t, res.RejectedSignal)
	assert.Zero(t, res.SkippedBackground)
	assert.Positive(t, res.Duration)

	require.Contains(t, res.Signal, "0")
	require.Contains(t, res.Background, "0")
	assert.Equal(t, float64(res.SignalPairs), res.Signal["0"].Integral())
	assert.Equal(t, float64(res.BackgroundPairs), res.Background["0"].Integral())
	assert.Equal(t, []string{"0"}, res.Buckets())
}

func TestRun_GeneratesDistinctRunIDs(t *testing.T) {
	a := newAnalysis(t, newMixer())
	r1, err := a.Run(context.Background(), fixedInputs(1))
	require.NoError(t, err)
	r2, err := a.Run(context.Background(), fixedInputs(1), analysis.WithRunID("fixed"))
	require.NoError(t, err)
	r3, err := a.Run(context.Background(), fixedInputs(1))
	require.NoError(t, err)

	assert.Equal(t, "fixed", r2.RunID)
	assert.NotEqual(t, r1.RunID, r3.RunID)
}

func TestRun_RejectedPairsAreCountedNotFilled(t *testing.T) {
	m := newMixer()
	m.SetPairCutFunc(func(p *demo.Pair) bool { return p.KT > 3 })
	a := newAnalysis(t, m)

	res, err := a.Run(context.Background(), fixedInputs(5))
	require.NoError(t, err)

	assert.Positive(t, res.RejectedSignal)
	assert.Equal(t, 5*15, res.SignalPairs+res.RejectedSignal)
	assert.NotContains(t, res.Signal, femtomix.RejectedCategory)
	assert.Equal(t, float64(res.SignalPairs), res.Signal["0"].Integral())
}

func TestRun_PairBuckets(t *testing.T) {
	m := newMixer()
	m.SetPairHashFunc(demo.KTHash)
	a := newAnalysis(t, m)

	res, err := a.Run(context.Background(), fixedInputs(3))
	require.NoError(t, err)
	assert.Greater(t, len(res.Signal), 1)

	total := 0.0
	for _, h := range res.Signal {
		total += h.Integral()
	}
	assert.Equal(t, float64(3*15), total)
}

func TestRun_FixedBufferSkipsBackground(t *testing.T) {
	a := newAnalysis(t, newMixer(femtomix.WithMaxBufferSize(5), femtomix.WithFixedBuffer(true)))

	res, err := a.Run(context.Background(), fixedInputs(8))
	require.NoError(t, err)
	assert.Equal(t, 4, res.SkippedBackground)
	// events 4..7 each see 4 foreign samples
	assert.Equal(t, 4*6, res.BackgroundPairs)
}

func TestRun_CrossInput(t *testing.T) {
	a := newAnalysis(t, newMixer())
	e := demo.FixedEvent("x", 0, 0)

	res, err := a.Run(context.Background(), []demoInput{
		{Event: e, Tracks: e.Tracks[:2], Tracks2: e.Tracks[2:]},
	})
	require.NoError(t, err)
	assert.Equal(t, femtomix.CrossPairCount(2, 4), res.SignalPairs)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newAnalysis(t, newMixer())
	res, err := a.Run(ctx, fixedInputs(3), analysis.WithRunID("r"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var cerr *analysis.CancelledError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 0, cerr.EventIndex)
	assert.Equal(t, "r", cerr.RunID)
	require.NotNil(t, res)
	assert.Zero(t, res.Events)
}

func TestRun_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newMixer()
	m.SetEventHashFunc(func(e *demo.Event) string {
		if e.ID() == "3" {
			cancel()
		}
		return "0"
	})
	store := results.NewMemoryStore()
	a := newAnalysis(t, m)

	res, err := a.Run(ctx, fixedInputs(10), analysis.WithStore(store), analysis.WithRunID("r"))
	var cerr *analysis.CancelledError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 4, cerr.EventIndex)
	assert.Equal(t, 4, res.Events)
	assert.Contains(t, err.Error(), "cancelled before event 4")

	infos, err := store.List("r")
	require.NoError(t, err)
	assert.Empty(t, infos, "cancelled runs save nothing")
}

func TestRun_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := newAnalysis(t, newMixer()).Run(ctx, fixedInputs(1))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_SavesToStore(t *testing.T) {
	store := results.NewMemoryStore()
	a := newAnalysis(t, newMixer())

	res, err := a.Run(context.Background(), fixedInputs(12),
		analysis.WithRunID("run-1"),
		analysis.WithStore(store),
		analysis.WithCorrelation(true),
	)
	require.NoError(t, err)

	infos, err := store.List("run-1")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, results.KindBackground, infos[0].Kind)
	assert.Equal(t, results.KindCorrelation, infos[1].Kind)
	assert.Equal(t, results.KindSignal, infos[2].Kind)

	rec, err := store.Load("run-1", results.KindSignal, "0")
	require.NoError(t, err)
	assert.Equal(t, res.Signal["0"].Snapshot(), rec.Histogram)
}

type failingStore struct {
	results.Store
}

func (failingStore) Save(string, results.Record) error { return errors.New("disk full") }

func TestRun_PersistError(t *testing.T) {
	store := failingStore{Store: results.NewMemoryStore()}
	res, err := newAnalysis(t, newMixer()).Run(context.Background(), fixedInputs(3), analysis.WithStore(store))

	var perr *analysis.PersistError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Failed)
	assert.ErrorContains(t, err, "disk full")
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Events)
}

func TestRun_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := newAnalysis(t, newMixer(), analysis.WithLogger(logger))
	_, err := a.Run(context.Background(), fixedInputs(2), analysis.WithRunID("log-run"),
		analysis.WithStore(results.NewMemoryStore()))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"analysis run starting"`)
	assert.Contains(t, out, `"msg":"analysis run completed"`)
	assert.Contains(t, out, `"msg":"result saved"`)
	assert.Contains(t, out, `"run_id":"log-run"`)
	assert.Contains(t, out, `"analysis":"test"`)
}

// recordingSpans is a SpanManager that records what it was asked to do.
type recordingSpans struct {
	mu     sync.Mutex
	runs   []string
	events []string
	marks  []string
	errs   []error
}

func (r *recordingSpans) StartRunSpan(ctx context.Context, _, runID string) (context.Context, trace.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, runID)
	return ctx, noop.Span{}
}

func (r *recordingSpans) StartEventSpan(ctx context.Context, eventID, _ string) (context.Context, trace.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventID)
	return ctx, noop.Span{}
}

func (r *recordingSpans) EndSpanWithError(_ trace.Span, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recordingSpans) AddSpanEvent(_ context.Context, name string, _ ...attribute.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, name)
}

func TestRun_Spans(t *testing.T) {
	spans := &recordingSpans{}
	a := newAnalysis(t,
		newMixer(femtomix.WithMaxBufferSize(2), femtomix.WithFixedBuffer(true)),
		analysis.WithSpanManager(spans))

	_, err := a.Run(context.Background(), fixedInputs(3), analysis.WithRunID("span-run"))
	require.NoError(t, err)

	assert.Equal(t, []string{"span-run"}, spans.runs)
	assert.Equal(t, []string{"0", "1", "2"}, spans.events)
	assert.Equal(t, []string{"background.skipped"}, spans.marks)
	// three event spans and the run span, all successful
	assert.Len(t, spans.errs, 4)
	for _, err := range spans.errs {
		assert.NoError(t, err)
	}
}

// runMetrics records analysis run outcomes only.
type runMetrics struct {
	observability.NoopMetrics
	runs []bool
}

func (m *runMetrics) RecordAnalysisRun(_ context.Context, success bool, _ time.Duration) {
	m.runs = append(m.runs, success)
}

func TestRun_Metrics(t *testing.T) {
	m := &runMetrics{}
	a := newAnalysis(t, newMixer(), analysis.WithMetrics(m))

	_, err := a.Run(context.Background(), fixedInputs(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Run(ctx, fixedInputs(2))
	require.Error(t, err)

	assert.Equal(t, []bool{true, false}, m.runs)
}

func TestResult_Correlation(t *testing.T) {
	a := newAnalysis(t, newMixer())
	res, err := a.Run(context.Background(), fixedInputs(12))
	require.NoError(t, err)

	c, err := res.Correlation("0")
	require.NoError(t, err)
	assert.Equal(t, testBinning, c.Binning())
	for i, v := range c.Counts() {
		if res.Background["0"].Counts()[i] == 0 {
			assert.Zero(t, v, "bin %d", i)
		}
	}

	_, err = res.Correlation("missing")
	assert.ErrorIs(t, err, analysis.ErrUnknownBucket)
}

func TestResult_CorrelationEmpty(t *testing.T) {
	empty := histogram.MustNew(testBinning)
	filled := histogram.MustNew(testBinning)
	filled.Fill(1)

	res := &analysis.Result{
		Signal:     map[string]*histogram.Histogram{"a": filled, "b": empty},
		Background: map[string]*histogram.Histogram{"a": empty, "b": filled, "c": filled},
	}
	_, err := res.Correlation("a")
	assert.ErrorIs(t, err, analysis.ErrEmptyHistogram)
	_, err = res.Correlation("b")
	assert.ErrorIs(t, err, analysis.ErrEmptyHistogram)
	_, err = res.Correlation("c")
	assert.ErrorIs(t, err, analysis.ErrUnknownBucket)

	assert.Equal(t, []string{"a", "b", "c"}, res.Buckets())
}
