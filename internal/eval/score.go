// Package eval implements the two evaluation modes over a postfix token
// stream: score evaluation against one document's histogram, and
// expression (candidate-set) evaluation against the inverted index. Both
// walk the stream forward with an explicit value stack, rather than the
// source's destructive pop-from-tail recursion, per the index-and-slice
// walk called for in the redesign notes.
package eval

import (
	"fmt"

	"github.com/jettpy/himpy-go/internal/element"
	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/histogram"
	"github.com/jettpy/himpy-go/internal/query"
)

// Evaluator is stateless apart from its injected, read-only group
// dictionary, so a single instance is safe for concurrent use across
// queries.
type Evaluator struct {
	dict *groups.Dictionary
}

// New builds an Evaluator over the given group dictionary. dict may be nil
// for corpora with no high-level elements, in which case every leaf token
// is treated as a raw element key.
func New(dict *groups.Dictionary) *Evaluator {
	return &Evaluator{dict: dict}
}

// Score runs mode 1: it resolves each leaf token against h (consulting the
// group dictionary for group names and multi-dimensional tuples) and
// applies the element-set algebra at each operator, returning the single
// ElementSet the postfix stream reduces to. Callers take .Sum() as the
// relevance score.
func (e *Evaluator) Score(tokens []query.Token, h *histogram.Histogram) (*element.Set, error) {
	stack := make([]*element.Set, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case query.KindName:
			stack = append(stack, h.ResolveName(tok.Name, e.dict))
		case query.KindTuple:
			set, err := h.ResolveTuple(tok.Tuple, e.dict)
			if err != nil {
				return nil, err
			}
			stack = append(stack, set)
		case query.KindNegate:
			if len(stack) < 1 {
				return nil, fmt.Errorf("eval: unary minus with no operand")
			}
			top := len(stack) - 1
			stack[top] = element.Negate(stack[top])
		case query.KindOp:
			if len(stack) < 2 {
				return nil, fmt.Errorf("eval: operator %s missing operand(s)", tok.Op)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, element.Apply(tok.Op, a, b))
		default:
			return nil, fmt.Errorf("eval: unknown token kind %d", tok.Kind)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("eval: malformed expression: stack has %d value(s) at end, want 1", len(stack))
	}
	return stack[0], nil
}
