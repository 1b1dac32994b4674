package groups

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// CartesianKeys expands a multi-dimensional group-name tuple into the set
// of joined element keys it denotes, per dimension independently: each
// slot resolves to a per-dimension key set (the wildcard "any" expands to
// the dimension's full union), and the result is every combination of one
// key per dimension, joined with ", " to match the corpus's own
// multi-dimensional key encoding.
//
// An unknown group name in a slot resolves to an empty per-dimension set
// (and therefore an empty overall result) rather than an error, matching
// the engine's "unknown group name" policy; a tuple whose arity does not
// match the dictionary's dimensionality is a query error.
func CartesianKeys(dict *Dictionary, tuple []string) (mapset.Set[string], error) {
	dims := 0
	if dict != nil {
		dims = dict.NumDims()
	}
	if len(tuple) != dims {
		return nil, fmt.Errorf("dimension mismatch: query tuple has %d slot(s), corpus has %d dimension(s)", len(tuple), dims)
	}
	perDim := make([]mapset.Set[string], len(tuple))
	for i, name := range tuple {
		switch {
		case name == reservedAny:
			perDim[i] = dict.Any(i)
		default:
			keys, ok := dict.Lookup(i, name)
			if !ok {
				return mapset.NewThreadUnsafeSet[string](), nil
			}
			perDim[i] = keys
		}
	}
	return product(perDim), nil
}

func product(perDim []mapset.Set[string]) mapset.Set[string] {
	combos := [][]string{{}}
	for _, dimKeys := range perDim {
		var next [][]string
		dimKeys.Each(func(k string) bool {
			for _, prefix := range combos {
				combo := make([]string, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, k))
			}
			return false
		})
		combos = next
		if len(combos) == 0 {
			break
		}
	}
	out := mapset.NewThreadUnsafeSet[string]()
	for _, combo := range combos {
		out.Add(strings.Join(combo, ", "))
	}
	return out
}
