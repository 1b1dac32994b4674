// Package groups implements the group dictionary (high-level elements):
// named subsets of element keys, one map per corpus dimension, plus the
// reserved "any" wildcard and the cartesian expansion of multi-dimensional
// group-name tuples used during candidate-set evaluation.
package groups

import (
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// reservedAny is the wildcard group name denoting the union of every group
// in its dimension. It must never appear as a user-supplied group name.
const reservedAny = "any"

// Dictionary maps, per corpus dimension, a group name to the set of
// element keys it denotes. A single-dimension corpus has exactly one
// dimension (index 0).
type Dictionary struct {
	dims []map[string]mapset.Set[string]

	mu       sync.Mutex
	anyCache []mapset.Set[string]
}

// New builds a Dictionary from one map per dimension. It rejects any
// dimension whose map defines the reserved name "any" explicitly.
func New(dims ...map[string]mapset.Set[string]) (*Dictionary, error) {
	for i, d := range dims {
		if _, ok := d[reservedAny]; ok {
			return nil, fmt.Errorf("groups: dimension %d defines reserved group name %q", i, reservedAny)
		}
	}
	return &Dictionary{dims: dims, anyCache: make([]mapset.Set[string], len(dims))}, nil
}

// NumDims returns the number of corpus dimensions.
func (d *Dictionary) NumDims() int { return len(d.dims) }

// Lookup returns the key set for a named group in the given dimension.
func (d *Dictionary) Lookup(dim int, name string) (mapset.Set[string], bool) {
	if dim < 0 || dim >= len(d.dims) {
		return nil, false
	}
	s, ok := d.dims[dim][name]
	return s, ok
}

// Any returns the lazily-computed union of every group's key set in dim,
// caching the result on first use since the dictionary is read-only after
// construction.
func (d *Dictionary) Any(dim int) mapset.Set[string] {
	if dim < 0 || dim >= len(d.dims) {
		return mapset.NewThreadUnsafeSet[string]()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.anyCache[dim] != nil {
		return d.anyCache[dim]
	}
	union := mapset.NewThreadUnsafeSet[string]()
	for _, keys := range d.dims[dim] {
		union = union.Union(keys)
	}
	d.anyCache[dim] = union
	return union
}

// Names returns the group names defined in dim, excluding "any".
func (d *Dictionary) Names(dim int) []string {
	if dim < 0 || dim >= len(d.dims) {
		return nil
	}
	names := make([]string, 0, len(d.dims[dim]))
	for n := range d.dims[dim] {
		names = append(names, n)
	}
	return names
}
