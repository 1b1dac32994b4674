package query

import (
	"strings"

	"github.com/jettpy/himpy-go/internal/histogram"
)

// valueKind distinguishes the two ways a Query can be satisfied, replacing
// the source's duck-typed "string-bearing value vs. Histogram" polymorphism
// with an explicit tagged variant.
type valueKind int

const (
	kindExpression valueKind = iota
	kindProbe
)

// Query is either a textual Expression or a literal probe Histogram. The
// engine branches on IsProbe rather than type-probing an interface.
type Query struct {
	kind  valueKind
	value string
	probe *histogram.Histogram
}

// Expression builds a Query from a textual group-name expression.
func Expression(s string) Query { return Query{kind: kindExpression, value: s} }

// Probe builds a Query that scores documents by similarity to h directly.
func Probe(h *histogram.Histogram) Query { return Query{kind: kindProbe, probe: h} }

// IsProbe reports whether this Query carries a literal histogram probe.
func (q Query) IsProbe() bool { return q.kind == kindProbe }

// Value returns the textual expression; only meaningful when !IsProbe().
func (q Query) Value() string { return q.value }

// Histogram returns the probe histogram; only meaningful when IsProbe().
func (q Query) Histogram() *histogram.Histogram { return q.probe }

// Name builds a single-group-name Expression query.
func Name(n string) Query { return Expression(n) }

// Tuple builds a multi-dimensional atom Expression query, e.g.
// Tuple("top", "green") -> "(top, green)".
func Tuple(names ...string) Query {
	return Expression("(" + strings.Join(names, ", ") + ")")
}

func (q Query) combine(sign string, other Query) Query {
	return Expression(q.value + " " + sign + " " + other.value)
}

// Union combines two expressions with "+".
func (q Query) Union(other Query) Query { return q.combine("+", other) }

// Intersect combines two expressions with "*".
func (q Query) Intersect(other Query) Query { return q.combine("*", other) }

// Difference combines two expressions with "/".
func (q Query) Difference(other Query) Query { return q.combine("/", other) }

// And combines two expressions with "&".
func (q Query) And(other Query) Query { return q.combine("&", other) }

// Or combines two expressions with "|".
func (q Query) Or(other Query) Query { return q.combine("|", other) }

// Xor combines two expressions with "#|".
func (q Query) Xor(other Query) Query { return q.combine("#|", other) }

// GatedDifference combines two expressions with "#/".
func (q Query) GatedDifference(other Query) Query { return q.combine("#/", other) }

// Negate prefixes the expression with a unary minus.
func (q Query) Negate() Query { return Expression("-" + q.value) }
