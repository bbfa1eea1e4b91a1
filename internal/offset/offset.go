// Package offset tracks field positions while walking a layout.
//
// A position is baseOffset + Static + Dynamic, where Static is a known integer
// and Dynamic is a symbolic sum of runtime lengths contributed by the dynamic
// fields already walked. The codec evaluates Dynamic against live values; the
// source generator renders it as a Go expression.
package offset

import (
	"strconv"
	"strings"
)

// TermKind selects how a term is evaluated.
type TermKind int

const (
	// Static is a constant number of bytes.
	Static TermKind = iota
	// RuntimeLength is the wire byte length of a dynamic string, terminator
	// included.
	RuntimeLength
	// RuntimeCount is the element count of a dynamic array times ElemSize.
	RuntimeCount
)

// Term is one summand of a dynamic offset expression.
type Term struct {
	Kind     TermKind
	Field    string // RuntimeLength, RuntimeCount
	N        int    // Static
	ElemSize int    // RuntimeCount
}

func (t Term) String() string {
	switch t.Kind {
	case RuntimeLength:
		return "len(" + t.Field + ")"
	case RuntimeCount:
		return "count(" + t.Field + ")*" + strconv.Itoa(t.ElemSize)
	default:
		return strconv.Itoa(t.N)
	}
}

// Env supplies runtime values for the fields a term refers to.
type Env interface {
	// Length is the number of wire bytes of a dynamic string field.
	Length(field string) int
	// Count is the element count of a dynamic array field.
	Count(field string) int
}

// Expr is an ordered list of terms. The zero value is the empty sum.
type Expr struct {
	terms []Term
}

// Terms returns a copy of the terms.
func (e Expr) Terms() []Term {
	return append([]Term(nil), e.terms...)
}

// IsZero reports whether the expression has no terms.
func (e Expr) IsZero() bool { return len(e.terms) == 0 }

// Append returns e with t added. e itself is left untouched so snapshots
// taken earlier stay valid.
func (e Expr) Append(t Term) Expr {
	terms := make([]Term, len(e.terms), len(e.terms)+1)
	copy(terms, e.terms)
	return Expr{terms: append(terms, t)}
}

// Eval sums the terms left to right.
func (e Expr) Eval(env Env) int {
	n := 0
	for _, t := range e.terms {
		switch t.Kind {
		case Static:
			n += t.N
		case RuntimeLength:
			n += env.Length(t.Field)
		case RuntimeCount:
			n += env.Count(t.Field) * t.ElemSize
		}
	}
	return n
}

// Renderer maps a term to a Go expression in generated code.
type Renderer func(t Term) string

// Render joins the rendered terms with " + ". It returns "" for an empty
// expression.
func (e Expr) Render(r Renderer) string {
	parts := make([]string, 0, len(e.terms))
	for _, t := range e.terms {
		if t.Kind == Static {
			if t.N == 0 {
				continue
			}
			parts = append(parts, strconv.Itoa(t.N))
			continue
		}
		parts = append(parts, r(t))
	}
	return strings.Join(parts, " + ")
}

func (e Expr) String() string {
	return e.Render(Term.String)
}

// Accumulator is the dual-valued position of the next field.
type Accumulator struct {
	Static  int
	Dynamic Expr
}

// New starts an accumulator after the leading bytes (header and friends).
func New(leading int) Accumulator {
	return Accumulator{Static: leading}
}

// Advance moves past a statically sized field.
func (a *Accumulator) Advance(n int) {
	a.Static += n
}

// AddLength moves past a dynamic string field.
func (a *Accumulator) AddLength(field string) {
	a.Dynamic = a.Dynamic.Append(Term{Kind: RuntimeLength, Field: field})
}

// AddCount moves past a dynamic array field.
func (a *Accumulator) AddCount(field string, elemSize int) {
	a.Dynamic = a.Dynamic.Append(Term{Kind: RuntimeCount, Field: field, ElemSize: elemSize})
}

// Snapshot returns the current position. Later calls on a do not affect it.
func (a Accumulator) Snapshot() Accumulator {
	return a
}

// At evaluates the absolute position for base.
func (a Accumulator) At(base int, env Env) int {
	return base + a.Static + a.Dynamic.Eval(env)
}

// Indexed returns the position of element i of width elemSize starting at a.
func (a Accumulator) Indexed(base int, env Env, i, elemSize int) int {
	return a.At(base, env) + i*elemSize
}

// Render renders base + Static + Dynamic for generated code, folding zeros.
func (a Accumulator) Render(base string, r Renderer) string {
	parts := make([]string, 0, 3)
	if base != "" {
		parts = append(parts, base)
	}
	if a.Static != 0 || (base == "" && a.Dynamic.IsZero()) {
		parts = append(parts, strconv.Itoa(a.Static))
	}
	if dyn := a.Dynamic.Render(r); dyn != "" {
		parts = append(parts, dyn)
	}
	return strings.Join(parts, " + ")
}

func (a Accumulator) String() string {
	return a.Render("", Term.String)
}
