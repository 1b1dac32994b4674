package eval

import (
	"fmt"

	roaring "github.com/RoaringBitmap/roaring/v2"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/jettpy/himpy-go/internal/element"
	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/index"
	"github.com/jettpy/himpy-go/internal/query"
)

// Candidate is the pair an expression evaluation produces at every node:
// the shortlisted document ids, and the element keys that contributed to
// them. key_set is needed because "*" consults key overlap, not just
// document-id overlap, to decide whether to intersect.
type Candidate struct {
	DocIDs *roaring.Bitmap
	KeySet mapset.Set[string]
}

func emptyCandidate() *Candidate {
	return &Candidate{DocIDs: roaring.New(), KeySet: mapset.NewThreadUnsafeSet[string]()}
}

// Expression runs mode 2: it shortlists candidate documents via idx,
// consulting the group dictionary for group names and multi-dimensional
// tuples, and applies the index-layer operator table (distinct from the
// element-set algebra used by Score) at each operator.
//
// A leading "unary -" has no defined meaning at this layer in the source
// material and is rejected here as a query error rather than silently
// misbehaving.
func (e *Evaluator) Expression(tokens []query.Token, idx *index.PostingIndex) (*Candidate, error) {
	stack := make([]*Candidate, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Kind {
		case query.KindNegate:
			return nil, fmt.Errorf("eval: unary minus has no defined semantics for candidate-set evaluation")
		case query.KindName:
			stack = append(stack, e.resolveNameCandidate(tok.Name, idx))
		case query.KindTuple:
			c, err := e.resolveTupleCandidate(tok.Tuple, idx)
			if err != nil {
				return nil, err
			}
			stack = append(stack, c)
		case query.KindOp:
			if len(stack) < 2 {
				return nil, fmt.Errorf("eval: operator %s missing operand(s)", tok.Op)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, applyExpression(tok.Op, a, b))
		default:
			return nil, fmt.Errorf("eval: unknown token kind %d", tok.Kind)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("eval: malformed expression: stack has %d value(s) at end, want 1", len(stack))
	}
	return stack[0], nil
}

func (e *Evaluator) resolveNameCandidate(name string, idx *index.PostingIndex) *Candidate {
	var keys mapset.Set[string]
	if e.dict != nil && e.dict.NumDims() > 0 {
		if groupKeys, ok := e.dict.Lookup(0, name); ok {
			keys = groupKeys
		} else if name == "any" {
			keys = e.dict.Any(0)
		}
	}
	if keys == nil {
		// raw key, not a group name
		c := emptyCandidate()
		c.KeySet.Add(name)
		if ids, ok := idx.Lookup(name); ok {
			c.DocIDs = ids.Clone()
		}
		return c
	}
	return unionOverKeys(keys, idx)
}

func (e *Evaluator) resolveTupleCandidate(tuple []string, idx *index.PostingIndex) (*Candidate, error) {
	keys, err := groups.CartesianKeys(e.dict, tuple)
	if err != nil {
		return nil, err
	}
	return unionOverKeys(keys, idx), nil
}

func unionOverKeys(keys mapset.Set[string], idx *index.PostingIndex) *Candidate {
	c := &Candidate{DocIDs: roaring.New(), KeySet: keys.Clone()}
	keys.Each(func(k string) bool {
		if ids, ok := idx.Lookup(k); ok {
			c.DocIDs.Or(ids)
		}
		return false
	})
	return c
}

// applyExpression implements the index-layer operator table, which is
// deliberately distinct from the element-set algebra's Apply: it combines
// document-id sets and key sets, not weighted values.
func applyExpression(op element.Operator, a, b *Candidate) *Candidate {
	switch op {
	case element.Union, element.Or:
		return &Candidate{DocIDs: roaring.Or(a.DocIDs, b.DocIDs), KeySet: a.KeySet.Union(b.KeySet)}
	case element.Intersection:
		keys := a.KeySet.Intersect(b.KeySet)
		if keys.Cardinality() == 0 {
			return &Candidate{DocIDs: roaring.New(), KeySet: keys}
		}
		return &Candidate{DocIDs: roaring.And(a.DocIDs, b.DocIDs), KeySet: keys}
	case element.Difference:
		return &Candidate{DocIDs: a.DocIDs.Clone(), KeySet: a.KeySet.Difference(b.KeySet)}
	case element.And:
		return &Candidate{DocIDs: roaring.And(a.DocIDs, b.DocIDs), KeySet: a.KeySet.Union(b.KeySet)}
	case element.Xor:
		return &Candidate{DocIDs: roaring.Xor(a.DocIDs, b.DocIDs), KeySet: a.KeySet.Union(b.KeySet)}
	case element.GatedDifference:
		return &Candidate{DocIDs: roaring.AndNot(a.DocIDs, b.DocIDs), KeySet: a.KeySet.Difference(b.KeySet)}
	default:
		return emptyCandidate()
	}
}
