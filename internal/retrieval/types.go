// Package retrieval ties the element algebra, histogram resolution, group
// dictionary, inverted index, and two-mode evaluator together into a
// searchable engine, offering three interchangeable retrieval strategies
// over the same corpus and group dictionary.
package retrieval

import (
	"github.com/jettpy/himpy-go/internal/histogram"
)

// DocID is the caller-assigned, opaque external identifier for a corpus
// document. The engine never interprets it; internally each DocID is
// mapped to a dense uint32 ordinal because the inverted index's roaring
// bitmaps require small-integer members.
type DocID string

// CorpusEntry is one document's identifier and content histogram, as
// supplied to NewEngine.
type CorpusEntry struct {
	ID        DocID
	Histogram *histogram.Histogram
}

// Result is one scored document in a retrieval response.
type Result struct {
	ID    DocID
	Score float64
}

// RetrieveResult is Retrieve's return value: the top-N results, and,
// when the caller asked for a last-N tail, that tail as a distinct slice.
// Both are cut from the same ranking, so they share documents whenever
// TopN + LastN exceeds the number of results kept. Last is nil unless
// RetrieveOptions.LastN > 0,
// matching retrieve()'s contract: a last_n tail is only part of the
// response when last_n was given at all.
type RetrieveResult struct {
	Top  []Result
	Last []Result
}

// Mode selects which retrieval strategy an Engine runs.
type Mode string

const (
	// ModeDefault is the principal strategy: shortlist candidates through
	// the inverted index, then score only those candidates.
	ModeDefault Mode = "default"
	// ModeClassic scores every document in the corpus, ignoring the index.
	ModeClassic Mode = "classic"
	// ModeParallel is ModeDefault's candidate shortlist scored across a
	// bounded worker pool.
	ModeParallel Mode = "parallel"
	// ModeDLL names the native/cgo-backed index strategy from the source
	// material. It has no pure-Go implementation here; NewEngine rejects it.
	ModeDLL Mode = "dll"
)

// RetrieveOptions controls how Retrieve ranks and trims its result set.
type RetrieveOptions struct {
	// TopN keeps only the TopN highest-scoring results. Zero means no limit.
	TopN int
	// LastN keeps only the LastN lowest-scoring (but still above Threshold)
	// results. Zero means no tail is returned (RetrieveResult.Last stays
	// nil). TopN and LastN may both be set, in which case both slices are
	// kept; no dedup pass is made between them.
	LastN int
	// Threshold excludes any result with Score <= Threshold.
	Threshold float64
}

// DefaultRetrieveOptions mirrors the source material's retrieve() defaults.
func DefaultRetrieveOptions() RetrieveOptions {
	return RetrieveOptions{TopN: 10, Threshold: 0.001}
}
