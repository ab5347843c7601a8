package cut

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vars holds the variable values an expression is evaluated against.
type Vars map[string]float64

// Sentinel errors.
var (
	// ErrSyntax indicates an expression that cannot be compiled.
	ErrSyntax = errors.New("cut syntax error")

	// ErrUnknownVariable indicates a variable absent from the evaluation
	// Vars or from the names passed to Check.
	ErrUnknownVariable = errors.New("unknown cut variable")
)

// Expr is a compiled cut expression.
type Expr struct {
	src  string
	root node
	vars []string
}

// Compile parses src into an Expr.
// An empty expression compiles to one that is always false.
func Compile(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	e := &Expr{src: src}
	if src == "" {
		e.root = constNode(false)
		return e, nil
	}

	root, err := parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, src, err)
	}
	e.root = root

	seen := make(map[string]bool)
	root.collect(seen)
	for name := range seen {
		e.vars = append(e.vars, name)
	}
	slices.Sort(e.vars)
	return e, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source expression.
func (e *Expr) String() string { return e.src }

// Variables returns the sorted names referenced by the expression.
func (e *Expr) Variables() []string {
	return slices.Clone(e.vars)
}

// Check returns an error wrapping ErrUnknownVariable if the expression
// references a name not in known.
func (e *Expr) Check(known ...string) error {
	for _, v := range e.vars {
		if !slices.Contains(known, v) {
			return fmt.Errorf("%w: %q in %q", ErrUnknownVariable, v, e.src)
		}
	}
	return nil
}

// Eval evaluates the expression.
func (e *Expr) Eval(vars Vars) (bool, error) {
	return e.root.eval(vars)
}

// node is one element of a compiled expression tree.
type node interface {
	eval(Vars) (bool, error)
	collect(map[string]bool)
}

type constNode bool

func (n constNode) eval(Vars) (bool, error) { return bool(n), nil }
func (constNode) collect(map[string]bool)   {}

type notNode struct{ inner node }

func (n notNode) eval(v Vars) (bool, error) {
	r, err := n.inner.eval(v)
	return !r, err
}

func (n notNode) collect(seen map[string]bool) { n.inner.collect(seen) }

type logicNode struct {
	and         bool
	left, right node
}

func (n logicNode) eval(v Vars) (bool, error) {
	l, err := n.left.eval(v)
	if err != nil {
		return false, err
	}
	// short-circuit
	if n.and && !l {
		return false, nil
	}
	if !n.and && l {
		return true, nil
	}
	return n.right.eval(v)
}

func (n logicNode) collect(seen map[string]bool) {
	n.left.collect(seen)
	n.right.collect(seen)
}

type compareNode struct {
	op          string
	left, right operand
}

func (n compareNode) eval(v Vars) (bool, error) {
	l, err := n.left.value(v)
	if err != nil {
		return false, err
	}
	r, err := n.right.value(v)
	if err != nil {
		return false, err
	}
	switch n.op {
	case "==":
		return l == r, nil
	case "!=":
		return l != r, nil
	case ">=":
		return l >= r, nil
	case "<=":
		return l <= r, nil
	case ">":
		return l > r, nil
	default:
		return l < r, nil
	}
}

func (n compareNode) collect(seen map[string]bool) {
	n.left.collect(seen)
	n.right.collect(seen)
}

type truthNode struct{ operand operand }

func (n truthNode) eval(v Vars) (bool, error) {
	x, err := n.operand.value(v)
	return x != 0, err
}

func (n truthNode) collect(seen map[string]bool) { n.operand.collect(seen) }

// operand is a literal or a variable reference.
type operand struct {
	name    string
	literal float64
}

func (o operand) value(v Vars) (float64, error) {
	if o.name == "" {
		return o.literal, nil
	}
	x, ok := v[o.name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, o.name)
	}
	return x, nil
}

func (o operand) collect(seen map[string]bool) {
	if o.name != "" {
		seen[o.name] = true
	}
}
