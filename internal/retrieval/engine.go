package retrieval

import (
	"context"
	"fmt"
	"sync"
	"time"

	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/jettpy/himpy-go/internal/eval"
	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/histogram"
	"github.com/jettpy/himpy-go/internal/index"
	"github.com/jettpy/himpy-go/internal/obs"
	"github.com/jettpy/himpy-go/internal/query"

	"github.com/google/uuid"
)

// Engine is a searchable corpus: a fixed set of documents, an optional
// group dictionary, a prebuilt inverted index, and an evaluator, scored
// through one of three interchangeable strategies. Once built, an Engine's
// corpus is immutable; Close releases its in-memory structures.
type Engine struct {
	mode Mode
	dict *groups.Dictionary
	docs []CorpusEntry
	idx  *index.PostingIndex
	eval *eval.Evaluator

	log     obs.Logger
	metrics obs.Metrics
	clock   obs.Clock
	workers int

	mu     sync.RWMutex
	closed bool
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l obs.Logger) Option { return func(e *Engine) { e.log = l } }

// WithMetrics sets a custom metrics collector.
func WithMetrics(m obs.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithClock sets a custom clock implementation.
func WithClock(c obs.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithWorkerPool bounds the concurrency of ModeParallel's scoring fan-out.
// n <= 0 is ignored.
func WithWorkerPool(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine builds a searchable Engine over corpus under the given group
// dictionary (nil for corpora with no high-level elements) and strategy
// mode. ModeDLL names the source material's native/cgo-backed index
// strategy, which has no pure-Go equivalent here and is rejected.
func NewEngine(corpus []CorpusEntry, dict *groups.Dictionary, mode Mode, opts ...Option) (*Engine, error) {
	if mode == ModeDLL {
		return nil, fmt.Errorf("retrieval: mode %q requires a native index backend, which this engine does not provide", mode)
	}
	if mode != ModeDefault && mode != ModeClassic && mode != ModeParallel {
		return nil, fmt.Errorf("retrieval: unknown mode %q", mode)
	}

	e := &Engine{
		mode:    mode,
		dict:    dict,
		docs:    append([]CorpusEntry(nil), corpus...),
		log:     obs.NoopLogger{},
		metrics: obs.NoopMetrics{},
		clock:   obs.SystemClock{},
		workers: 4,
	}
	for _, o := range opts {
		o(e)
	}
	e.eval = eval.New(dict)

	buildStart := e.clock.Now()
	e.idx = index.New()
	for ord, entry := range e.docs {
		for _, key := range entry.Histogram.Elements() {
			e.idx.Add(key, uint32(ord))
		}
	}
	e.metrics.ObserveHistogram("index_build_ms", e.millis(buildStart), map[string]string{"mode": string(mode)})
	return e, nil
}

// millis converts the elapsed time since start, per the engine's Clock,
// into the float64 millisecond value every histogram observation uses.
func (e *Engine) millis(start time.Time) float64 {
	return float64(e.clock.Now().Sub(start)) / float64(time.Millisecond)
}

// probeCandidates shortlists documents for a histogram probe through the
// inverted index: the union of posting lists for the probe's own keys,
// mirroring how an expression query's candidate set is built so probes
// get the same index-backed shortlist instead of a full scan.
func (e *Engine) probeCandidates(h *histogram.Histogram) *roaring.Bitmap {
	out := roaring.New()
	for _, key := range h.Elements() {
		if b, ok := e.idx.Lookup(key); ok {
			out.Or(b)
		}
	}
	return out
}

// Close releases the engine's in-memory index and corpus. It satisfies
// io.Closer, standing in for the source material's native-handle release
// on the cgo-backed index strategy; here there is no external resource to
// free, but the contract (an Engine must be Closed exactly once when done)
// is preserved so callers written against either backend behave the same.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("retrieval: engine already closed")
	}
	e.closed = true
	e.docs = nil
	e.idx = nil
	return nil
}

// RetrieveOption adjusts DefaultRetrieveOptions() for one Retrieve call.
type RetrieveOption func(*RetrieveOptions)

// WithTopN overrides the top-N cutoff.
func WithTopN(n int) RetrieveOption { return func(o *RetrieveOptions) { o.TopN = n } }

// WithLastN overrides the last-N cutoff.
func WithLastN(n int) RetrieveOption { return func(o *RetrieveOptions) { o.LastN = n } }

// WithThreshold overrides the minimum score (exclusive) a result must clear.
func WithThreshold(t float64) RetrieveOption { return func(o *RetrieveOptions) { o.Threshold = t } }

// Retrieve scores q against every document reachable by the engine's
// strategy and returns the ranked, trimmed result set: the top-N list
// always, and a last-N tail too when the caller asked for one.
func (e *Engine) Retrieve(ctx context.Context, q query.Query, opts ...RetrieveOption) (RetrieveResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return RetrieveResult{}, fmt.Errorf("retrieval: engine is closed")
	}

	ro := DefaultRetrieveOptions()
	for _, o := range opts {
		o(&ro)
	}

	reqID := uuid.NewString()
	fields := map[string]any{"request_id": reqID, "mode": string(e.mode)}
	e.log.Debug("retrieve start", fields)

	var results []Result
	var err error
	switch e.mode {
	case ModeClassic:
		results, err = e.fullScan(ctx, q)
	case ModeDefault:
		results, err = e.indexed(ctx, q)
	case ModeParallel:
		results, err = e.parallelIndexed(ctx, q)
	}
	if err != nil {
		e.log.Error("retrieve failed", map[string]any{"request_id": reqID, "error": err.Error()})
		return RetrieveResult{}, err
	}

	rankStart := e.clock.Now()
	out := rank(results, ro)
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(rankStart), map[string]string{"stage": "rank", "mode": string(e.mode)})
	e.log.Info("retrieve done", map[string]any{"request_id": reqID, "candidates": len(results), "top": len(out.Top), "last": len(out.Last)})
	return out, nil
}

// score computes a single document's relevance: an expression query is
// evaluated against the document's histogram and summed; a probe query is
// scored by the mass the document's histogram shares with the probe.
func (e *Engine) score(q query.Query, tokens []query.Token, h *histogram.Histogram) (float64, error) {
	if q.IsProbe() {
		return histogram.Intersection(q.Histogram(), h).Sum(), nil
	}
	set, err := e.eval.Score(tokens, h)
	if err != nil {
		return 0, err
	}
	return set.Sum(), nil
}

func (e *Engine) tokensFor(q query.Query) ([]query.Token, error) {
	if q.IsProbe() {
		return nil, nil
	}
	return query.Parse(q.Value())
}
