// Package histogram implements the sparse keyed value store that backs one
// document's weighted content profile, plus the value-combining algebra
// between two histograms and the group-aware lookup used by score
// evaluation.
package histogram

// Histogram is a sparse mapping of element keys to non-negative weights,
// with an independent size scalar used for normalisation. It is built once
// (from raw counts or as an operator result) and, once handed to an index,
// is never mutated again; Add remains available for incremental
// construction before that point.
type Histogram struct {
	elements   map[string]float64
	size       float64
	normalized bool
}

// New returns an empty Histogram.
func New() *Histogram {
	return &Histogram{elements: make(map[string]float64)}
}

// FromCounts builds an unnormalised Histogram counting occurrences of each
// key in keys, mirroring the frequency-table construction used when a
// corpus is derived from raw token lists rather than pre-aggregated
// weights.
func FromCounts(keys []string) *Histogram {
	h := New()
	for _, k := range keys {
		h.elements[k]++
	}
	h.size = h.Sum()
	return h
}

// Add accumulates value into key, inserting it at zero first if absent, and
// grows size by the same amount.
func (h *Histogram) Add(key string, value float64) {
	if h.elements == nil {
		h.elements = make(map[string]float64)
	}
	h.elements[key] += value
	h.size += value
}

// Normalize divides every value by size (or, if given, by the supplied
// size, which also becomes the stored size for future calls). It is
// idempotent: a repeat call with no size, or with the size already stored,
// leaves the values unchanged. A repeat call with a different size divides
// the values again by that size, since size is independent of the
// histogram's current sum.
func (h *Histogram) Normalize(size ...float64) {
	target := h.size
	if len(size) > 0 {
		target = size[0]
	}
	if h.normalized && target == h.size {
		return
	}
	h.size = target
	if h.size == 0 {
		h.normalized = true
		return
	}
	for k, v := range h.elements {
		h.elements[k] = v / h.size
	}
	h.normalized = true
}

// IsNormalized reports whether Normalize has been called.
func (h *Histogram) IsNormalized() bool { return h.normalized }

// Sum returns the sum of all element values.
func (h *Histogram) Sum() float64 {
	var total float64
	for _, v := range h.elements {
		total += v
	}
	return total
}

// Len returns the number of distinct keys, including any added with a
// zero value.
func (h *Histogram) Len() int { return len(h.elements) }

// Get returns the value stored for key, if any.
func (h *Histogram) Get(key string) (float64, bool) {
	v, ok := h.elements[key]
	return v, ok
}

// Elements returns the histogram's keys in unspecified order; two calls
// may return them in different orders.
func (h *Histogram) Elements() []string {
	out := make([]string, 0, len(h.elements))
	for k := range h.elements {
		out = append(out, k)
	}
	return out
}

// ToMap returns a defensive copy of the key-value mapping.
func (h *Histogram) ToMap() map[string]float64 {
	out := make(map[string]float64, len(h.elements))
	for k, v := range h.elements {
		out[k] = v
	}
	return out
}
