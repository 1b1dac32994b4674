package retrieval

import (
	"context"

	roaring "github.com/RoaringBitmap/roaring/v2"

	"github.com/jettpy/himpy-go/internal/query"
)

// indexed is strategy S2, the principal strategy: shortlist candidate
// documents through the inverted index, then score only those candidates
// via the element-set algebra. An expression query is shortlisted by
// expression evaluation over the index; a histogram probe is shortlisted
// by the union of posting lists for its own keys, so both paths stay
// index-backed rather than falling back to a full scan.
func (e *Engine) indexed(ctx context.Context, q query.Query) ([]Result, error) {
	evalStart := e.clock.Now()
	var tokens []query.Token
	var candidates *roaring.Bitmap
	if q.IsProbe() {
		candidates = e.probeCandidates(q.Histogram())
	} else {
		var err error
		tokens, err = query.Parse(q.Value())
		if err != nil {
			return nil, err
		}
		candidate, err := e.eval.Expression(tokens, e.idx)
		if err != nil {
			return nil, err
		}
		candidates = candidate.DocIDs
	}
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(evalStart), map[string]string{"stage": "expression_eval", "mode": string(ModeDefault)})

	scoreStart := e.clock.Now()
	out := make([]Result, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ord := it.Next()
		entry := e.docs[ord]
		score, err := e.score(q, tokens, entry.Histogram)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{ID: entry.ID, Score: score})
	}
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(scoreStart), map[string]string{"stage": "score_eval", "mode": string(ModeDefault)})
	e.metrics.IncCounterBy("retrieval_candidates_total", len(out), map[string]string{"mode": string(ModeDefault)})
	return out, nil
}
