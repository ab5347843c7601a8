package demo

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// GenerateOptions shapes synthetic events. Zero fields take defaults.
type GenerateOptions struct {
	// Centralities is the number of centrality classes. Default 10.
	Centralities int
	// ZRange is the half-width of the uniform vertex distribution in mm.
	// Default 50.
	ZRange float64
	// PtSigma is the width of the transverse momentum components in GeV/c.
	// Default 0.3.
	PtSigma float64
	// PzSigma is the width of the longitudinal momentum in GeV/c. Default 0.5.
	PzSigma float64
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Centralities <= 0 {
		o.Centralities = 10
	}
	if o.ZRange <= 0 {
		o.ZRange = 50
	}
	if o.PtSigma <= 0 {
		o.PtSigma = 0.3
	}
	if o.PzSigma <= 0 {
		o.PzSigma = 0.5
	}
	return o
}

// Generate returns n events with tracksPerEvent Gaussian tracks each.
// Event ids are random UUIDs; everything else is drawn from rng.
func Generate(n, tracksPerEvent int, rng *rand.Rand, opts GenerateOptions) []*Event {
	opts = opts.withDefaults()
	events := make([]*Event, n)
	for i := range events {
		e := &Event{
			EventID:    uuid.NewString(),
			Centrality: rng.IntN(opts.Centralities),
			Z:          (rng.Float64()*2 - 1) * opts.ZRange,
			Tracks:     make([]*Track, tracksPerEvent),
		}
		for j := range e.Tracks {
			e.Tracks[j] = &Track{
				Px: rng.NormFloat64() * opts.PtSigma,
				Py: rng.NormFloat64() * opts.PtSigma,
				Pz: rng.NormFloat64() * opts.PzSigma,
			}
		}
		events[i] = e
	}
	return events
}

// FixedEvent builds a deterministic event with six tracks,
// px = k+1, py = k-1, pz = k for k = 0..5.
func FixedEvent(id string, centrality int, z float64) *Event {
	e := &Event{EventID: id, Centrality: centrality, Z: z}
	for k := range 6 {
		f := float64(k)
		e.Tracks = append(e.Tracks, &Track{Px: f + 1, Py: f - 1, Pz: f})
	}
	return e
}
