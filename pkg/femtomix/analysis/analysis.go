package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/histogram"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/results"
)

// Observable extracts the histogrammed quantity from a pair.
type Observable[P any] func(pair *P) float64

// Input is one event and its tracks. When Tracks2 is non-nil the event is
// mixed as two species with Tracks as the first.
type Input[E femtomix.Event, T any] struct {
	Event   E
	Tracks  []*T
	Tracks2 []*T
}

// Analysis accumulates histograms of one observable over mixed events.
type Analysis[E femtomix.Event, T any, P any] struct {
	name       string
	mixer      *femtomix.Mixer[E, T, P]
	observable Observable[P]
	binning    histogram.Binning
	cfg        analysisConfig
}

// New creates an Analysis. name labels logs and spans.
func New[E femtomix.Event, T any, P any](name string, mixer *femtomix.Mixer[E, T, P], observable Observable[P], binning histogram.Binning, opts ...Option) (*Analysis[E, T, P], error) {
	if mixer == nil {
		return nil, ErrNilMixer
	}
	if observable == nil {
		return nil, ErrNilObservable
	}
	if err := binning.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultAnalysisConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Analysis[E, T, P]{
		name:       name,
		mixer:      mixer,
		observable: observable,
		binning:    binning,
		cfg:        cfg,
	}, nil
}

// Name returns the analysis name.
func (a *Analysis[E, T, P]) Name() string { return a.name }

// Mixer returns the underlying mixer.
func (a *Analysis[E, T, P]) Mixer() *femtomix.Mixer[E, T, P] { return a.mixer }

// Run processes inputs in order.
//
// The mixer keeps its buffers between runs; call Mixer().Reset() first for
// an independent run. On cancellation Run returns the partial Result and a
// *CancelledError. If saving to the store fails the complete Result is
// returned with a *PersistError.
func (a *Analysis[E, T, P]) Run(ctx context.Context, inputs []Input[E, T], opts ...RunOption) (res *Result, runErr error) {
	rc := runConfig{}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.runID == "" {
		rc.runID = uuid.NewString()
	}

	logger := observability.EnrichLogger(a.cfg.logger, rc.runID, a.name)
	elapsed := observability.TimedOperation()
	start := time.Now()

	observability.LogRunStart(logger, rc.runID, len(inputs))

	ctx, runSpan := a.cfg.spans.StartRunSpan(ctx, a.name, rc.runID)
	defer func() {
		a.cfg.spans.EndSpanWithError(runSpan, runErr)
	}()

	res = newResult(rc.runID)
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			runErr = &CancelledError{RunID: rc.runID, EventIndex: i, Cause: err}
			observability.LogRunError(logger, rc.runID, runErr, elapsed(), i)
			a.cfg.metrics.RecordAnalysisRun(ctx, false, res.Duration)
			return res, runErr
		}

		if err := a.processEvent(ctx, in, res); err != nil {
			res.Duration = time.Since(start)
			runErr = fmt.Errorf("event %d (%s): %w", i, in.Event.ID(), err)
			observability.LogRunError(logger, rc.runID, runErr, elapsed(), i)
			a.cfg.metrics.RecordAnalysisRun(ctx, false, res.Duration)
			return res, runErr
		}
	}

	res.Duration = time.Since(start)
	observability.LogRunComplete(logger, rc.runID, elapsed(), res.Events, res.SignalPairs, res.BackgroundPairs)
	a.cfg.metrics.RecordAnalysisRun(ctx, true, res.Duration)

	if rc.store != nil {
		if err := a.persist(logger, rc, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (a *Analysis[E, T, P]) processEvent(ctx context.Context, in Input[E, T], res *Result) (err error) {
	category := a.mixer.EventHash(in.Event)
	ctx, span := a.cfg.spans.StartEventSpan(ctx, in.Event.ID(), category)
	defer func() {
		a.cfg.spans.EndSpanWithError(span, err)
	}()

	var signal femtomix.PairMap[P]
	if in.Tracks2 != nil {
		signal = a.mixer.AddEventCross(in.Event, in.Tracks, in.Tracks2)
	} else {
		signal = a.mixer.AddEvent(in.Event, in.Tracks)
	}
	res.Events++
	a.fill(res.Signal, signal, &res.SignalPairs, &res.RejectedSignal)

	ready, err := a.mixer.BackgroundReady(in.Event)
	if err != nil {
		return err
	}
	if !ready {
		res.SkippedBackground++
		a.cfg.spans.AddSpanEvent(ctx, "background.skipped",
			attribute.Int("stored", a.mixer.Stored(category)),
			attribute.Int("capacity", a.mixer.MaxBufferSize()),
		)
		return nil
	}

	background, err := a.mixer.GetSimilarPairs(in.Event)
	if err != nil {
		return err
	}
	a.fill(res.Background, background, &res.BackgroundPairs, &res.RejectedBackground)
	return nil
}

func (a *Analysis[E, T, P]) fill(hists map[string]*histogram.Histogram, pairs femtomix.PairMap[P], accepted, rejected *int) {
	for bucket, ps := range pairs {
		if bucket == femtomix.RejectedCategory {
			*rejected += len(ps)
			continue
		}
		*accepted += len(ps)

		h, ok := hists[bucket]
		if !ok {
			h = histogram.MustNew(a.binning)
			hists[bucket] = h
		}
		values := make([]float64, len(ps))
		for i, p := range ps {
			values[i] = a.observable(p)
		}
		h.FillN(values)
	}
}

// persist saves every histogram of res. Failures are logged and collected
// so one bad record does not stop the rest from being saved.
func (a *Analysis[E, T, P]) persist(logger *slog.Logger, rc runConfig, res *Result) error {
	var (
		errs   []error
		failed int
	)
	save := func(kind, bucket string, h *histogram.Histogram) {
		err := rc.store.Save(rc.runID, results.Record{Kind: kind, Bucket: bucket, Histogram: h.Snapshot()})
		if err != nil {
			failed++
			errs = append(errs, err)
			observability.LogResultError(logger, rc.runID, kind, bucket, err)
			return
		}
		observability.LogResultSaved(logger, rc.runID, kind, bucket)
	}

	for _, bucket := range sortedKeys(res.Signal) {
		save(results.KindSignal, bucket, res.Signal[bucket])
	}
	for _, bucket := range sortedKeys(res.Background) {
		save(results.KindBackground, bucket, res.Background[bucket])
	}
	if rc.correlation {
		for _, bucket := range res.Buckets() {
			c, err := res.Correlation(bucket)
			if err != nil {
				// Buckets without both distributions have no correlation.
				continue
			}
			save(results.KindCorrelation, bucket, c)
		}
	}

	if failed > 0 {
		return &PersistError{RunID: rc.runID, Failed: failed, Err: errors.Join(errs...)}
	}
	return nil
}
