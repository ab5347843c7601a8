// Package demo provides a small event model for examples, tests and
// benchmarks: events with a centrality class and vertex position, tracks
// with a three-momentum, and pairs carrying qinv and kT.
package demo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
)

// PionMass is the charged pion mass in GeV/c^2, used to build energies.
const PionMass = 0.13957

// KTBinWidth is the width, in GeV/c, of the buckets produced by KTHash.
const KTBinWidth = 0.2

// Event is a collision event.
type Event struct {
	EventID    string
	Centrality int
	// Z is the longitudinal vertex position in mm.
	Z      float64
	Tracks []*Track
}

// ID implements femtomix.Event.
func (e *Event) ID() string { return e.EventID }

// Track is a reconstructed particle with momentum in GeV/c.
type Track struct {
	Px, Py, Pz float64
}

// Energy returns the track energy assuming the pion mass.
func (t *Track) Energy() float64 {
	return math.Sqrt(PionMass*PionMass + t.Px*t.Px + t.Py*t.Py + t.Pz*t.Pz)
}

// Pair holds the observables of a track pair.
type Pair struct {
	// QInv is the Lorentz-invariant relative momentum.
	QInv float64
	// KT is the average transverse momentum of the pair.
	KT float64
}

// NewPair builds a Pair. It is symmetric in its arguments.
func NewPair(first, second *Track) *Pair {
	dE := first.Energy() - second.Energy()
	dx := first.Px - second.Px
	dy := first.Py - second.Py
	dz := first.Pz - second.Pz
	// -q^2 = |dp|^2 - dE^2, clamped against rounding below zero.
	q2 := dx*dx + dy*dy + dz*dz - dE*dE

	sx := first.Px + second.Px
	sy := first.Py + second.Py
	return &Pair{
		QInv: math.Sqrt(math.Max(q2, 0)),
		KT:   math.Hypot(sx, sy) / 2,
	}
}

// CentralityHash groups events by centrality class.
func CentralityHash(e *Event) string {
	return strconv.Itoa(e.Centrality)
}

// CentralityZHash groups events by centrality class and 20 mm vertex slices.
func CentralityZHash(e *Event) string {
	return fmt.Sprintf("%d/%d", e.Centrality, int(math.Floor(e.Z/20)))
}

// KTHash buckets pairs by kT in KTBinWidth-wide bins.
func KTHash(p *Pair) string {
	return strconv.Itoa(int(p.KT / KTBinWidth))
}

// QInv is the qinv observable.
func QInv(p *Pair) float64 { return p.QInv }

// KT is the kT observable.
func KT(p *Pair) float64 { return p.KT }

// VarNames lists the variables exposed by PairVars.
var VarNames = []string{"qinv", "kt"}

// PairVars exposes pair observables to cut expressions.
func PairVars(p *Pair) cut.Vars {
	return cut.Vars{"qinv": p.QInv, "kt": p.KT}
}

// Observable returns the pair observable called name.
func Observable(name string) (func(*Pair) float64, error) {
	switch name {
	case "qinv":
		return QInv, nil
	case "kt":
		return KT, nil
	}
	return nil, fmt.Errorf("unknown observable %q (available: qinv, kt)", name)
}

// Register adds the demo hashers and pair variables to cat.
func Register(cat *femtomix.Catalog[*Event, Pair]) error {
	if err := cat.EventHashes.Register("centrality", CentralityHash); err != nil {
		return err
	}
	if err := cat.EventHashes.Register("centrality_z", CentralityZHash); err != nil {
		return err
	}
	if err := cat.PairHashes.Register("kt", KTHash); err != nil {
		return err
	}
	cat.SetPairVars(PairVars, VarNames...)
	return nil
}

// NewCatalog returns a catalog with the demo functions registered.
func NewCatalog() *femtomix.Catalog[*Event, Pair] {
	cat := femtomix.NewCatalog[*Event, Pair]()
	if err := Register(cat); err != nil {
		panic(err)
	}
	return cat
}
