package femtomix

import (
	"errors"
	"slices"

	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

// ErrNoPairVars indicates a cut expression was configured but the catalog
// has no function exposing pair variables.
var ErrNoPairVars = errors.New("no pair variables registered")

// PairVarsFunc exposes the named observables of a pair to cut expressions.
type PairVarsFunc[P any] func(pair *P) cut.Vars

// Catalog names the hash functions and pair variables of one event and
// pair type, so configuration can select them by name.
type Catalog[E Event, P any] struct {
	EventHashes *registry.Registry[EventHashFunc[E]]
	PairHashes  *registry.Registry[PairHashFunc[P]]

	pairVars PairVarsFunc[P]
	varNames []string
}

// NewCatalog creates an empty catalog.
func NewCatalog[E Event, P any]() *Catalog[E, P] {
	return &Catalog[E, P]{
		EventHashes: registry.New[EventHashFunc[E]]("event hash"),
		PairHashes:  registry.New[PairHashFunc[P]]("pair hash"),
	}
}

// SetPairVars registers the function evaluated by cut expressions and the
// variable names it provides.
func (c *Catalog[E, P]) SetPairVars(fn PairVarsFunc[P], names ...string) {
	c.pairVars = fn
	c.varNames = slices.Clone(names)
	slices.Sort(c.varNames)
}

// PairVars returns the registered pair-variable function and its names.
// fn is nil if none was registered.
func (c *Catalog[E, P]) PairVars() (fn PairVarsFunc[P], names []string) {
	return c.pairVars, slices.Clone(c.varNames)
}

// RejectFunc compiles src into a PairCutFunc rejecting the pairs for which
// the expression holds. Every variable in src must be among the catalog's
// pair variables.
func (c *Catalog[E, P]) RejectFunc(src string) (PairCutFunc[P], error) {
	expr, err := cut.Compile(src)
	if err != nil {
		return nil, err
	}
	if c.pairVars == nil {
		return nil, ErrNoPairVars
	}
	if err := expr.Check(c.varNames...); err != nil {
		return nil, err
	}
	return CutFromExpr(expr, c.pairVars), nil
}

// CutFromExpr adapts a compiled expression into a PairCutFunc.
// Pairs whose evaluation fails are rejected.
func CutFromExpr[P any](expr *cut.Expr, vars PairVarsFunc[P]) PairCutFunc[P] {
	return func(pair *P) bool {
		reject, err := expr.Eval(vars(pair))
		return err != nil || reject
	}
}
