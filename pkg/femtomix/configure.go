package femtomix

import (
	"fmt"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
)

// OptionsFromSettings converts the type-independent mixer settings into
// construction options. Hash and cut names need a catalog; see Configure.
func OptionsFromSettings(s config.MixerSettings) []Option {
	opts := []Option{
		WithMaxBufferSize(s.MaxBufferSize),
		WithFixedBuffer(s.FixedBuffer),
	}
	if s.Seed != 0 {
		opts = append(opts, WithSeed(s.Seed))
	}
	return opts
}

// Configure applies s to m, resolving function names through cat.
//
// Names are resolved before anything is applied, so on error m is left
// unchanged. Empty names restore the mixer defaults.
func Configure[E Event, T any, P any](m *Mixer[E, T, P], s config.MixerSettings, cat *Catalog[E, P]) error {
	var (
		eventHash EventHashFunc[E]
		pairHash  PairHashFunc[P]
		pairCut   PairCutFunc[P]
		err       error
	)

	if s.EventHash != "" {
		if eventHash, err = cat.EventHashes.Lookup(s.EventHash); err != nil {
			return fmt.Errorf("configure mixer: %w", err)
		}
	}
	if s.PairHash != "" {
		if pairHash, err = cat.PairHashes.Lookup(s.PairHash); err != nil {
			return fmt.Errorf("configure mixer: %w", err)
		}
	}
	if s.Reject != "" {
		if pairCut, err = cat.RejectFunc(s.Reject); err != nil {
			return fmt.Errorf("configure mixer: reject: %w", err)
		}
	}

	cfg := defaultMixerConfig()
	for _, opt := range OptionsFromSettings(s) {
		opt(&cfg)
	}
	m.SetMaxBufferSize(cfg.maxBufferSize)
	m.SetFixedBuffer(cfg.fixedBuffer)
	if cfg.rng != nil {
		m.rng = cfg.rng
	}
	m.SetEventHashFunc(eventHash)
	m.SetPairHashFunc(pairHash)
	m.SetPairCutFunc(pairCut)
	return nil
}

// NewFromSettings creates a Mixer from settings. opts are applied after
// the settings-derived options and may override them.
//
// Example:
//
//	cat := femtomix.NewCatalog[*demo.Event, demo.Pair]()
//	demo.Register(cat)
//	mixer, err := femtomix.NewFromSettings[*demo.Event](demo.NewPair, s.Mixer, cat,
//	    femtomix.WithLogger(logger))
func NewFromSettings[E Event, T any, P any](newPair PairFunc[T, P], s config.MixerSettings, cat *Catalog[E, P], opts ...Option) (*Mixer[E, T, P], error) {
	all := append(OptionsFromSettings(s), opts...)
	m := New[E](newPair, all...)

	// Keep the rng and buffer policy chosen by opts.
	s.Seed = 0
	s.MaxBufferSize = m.MaxBufferSize()
	s.FixedBuffer = m.FixedBuffer()
	if err := Configure(m, s, cat); err != nil {
		return nil, err
	}
	return m, nil
}
