package histogram

import (
	"fmt"
	"strings"

	"github.com/jettpy/himpy-go/internal/element"
	"github.com/jettpy/himpy-go/internal/groups"
)

// ResolveName implements the histogram call contract for a single-dimension
// leaf token: if name names a group, scan the histogram for keys in that
// group's set ("any" expands to the dimension's full union); otherwise
// treat name as a raw key and return a singleton if present, else empty.
func (h *Histogram) ResolveName(name string, dict *groups.Dictionary) *element.Set {
	if dict != nil && dict.NumDims() > 0 {
		if keys, ok := dict.Lookup(0, name); ok {
			return h.scanMembership(keys)
		}
		if name == "any" {
			return h.scanMembership(dict.Any(0))
		}
	}
	if v, ok := h.Get(name); ok {
		return element.NewSet(element.Element{Key: name, Value: v})
	}
	return element.Empty()
}

// ResolveTuple implements the histogram call contract for a
// multi-dimensional leaf token: each slot resolves independently to a
// per-dimension key set, and every histogram key whose comma-joined parts
// each fall in the corresponding slot's set is included.
func (h *Histogram) ResolveTuple(tuple []string, dict *groups.Dictionary) (*element.Set, error) {
	if dict == nil || dict.NumDims() != len(tuple) {
		got := 0
		if dict != nil {
			got = dict.NumDims()
		}
		return nil, &DimensionMismatchError{Want: got, Got: len(tuple)}
	}

	dims := make([]membershipTest, len(tuple))
	hasCompound := false
	for i, name := range tuple {
		if name == "any" {
			any := dict.Any(i)
			dims[i] = func(s string) bool { return any.ContainsOne(s) }
			hasCompound = true
			continue
		}
		if keys, ok := dict.Lookup(i, name); ok {
			keys := keys
			dims[i] = func(s string) bool { return keys.ContainsOne(s) }
			hasCompound = true
			continue
		}
		fixed := name
		dims[i] = func(s string) bool { return s == fixed }
	}

	if !hasCompound {
		joined := strings.Join(tuple, ", ")
		if v, ok := h.Get(joined); ok {
			return element.NewSet(element.Element{Key: joined, Value: v}), nil
		}
	}

	out := element.Empty()
	for key, value := range h.elements {
		parts := strings.Split(key, ", ")
		if len(parts) != len(dims) {
			continue
		}
		match := true
		for i, test := range dims {
			if !test(parts[i]) {
				match = false
				break
			}
		}
		if match {
			out.Add(key, value)
		}
	}
	return out, nil
}

type membershipTest func(string) bool

// setContains is satisfied by mapset.Set[string]; kept minimal so this
// package does not need to import mapset just to name the parameter type.
type setContains interface {
	ContainsOne(string) bool
}

func (h *Histogram) scanMembership(keys setContains) *element.Set {
	out := element.Empty()
	for key, value := range h.elements {
		if keys.ContainsOne(key) {
			out.Add(key, value)
		}
	}
	return out
}

// DimensionMismatchError reports a tuple atom whose arity does not match
// the corpus's dimensionality; per error-handling policy this fails the
// query, not the engine.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("histogram: dimension mismatch: corpus has %d dimension(s), query tuple has %d slot(s)", e.Want, e.Got)
}
