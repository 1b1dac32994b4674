package retrieval

import (
	"context"

	"github.com/jettpy/himpy-go/internal/query"
)

// fullScan is strategy S1: score every document in the corpus, ignoring the
// inverted index entirely. It is the simplest strategy and the baseline
// every other strategy must agree with.
func (e *Engine) fullScan(ctx context.Context, q query.Query) ([]Result, error) {
	tokens, err := e.tokensFor(q)
	if err != nil {
		return nil, err
	}
	scoreStart := e.clock.Now()
	out := make([]Result, 0, len(e.docs))
	for _, entry := range e.docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := e.score(q, tokens, entry.Histogram)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{ID: entry.ID, Score: score})
	}
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(scoreStart), map[string]string{"stage": "score_eval", "mode": string(ModeClassic)})
	e.metrics.IncCounterBy("retrieval_candidates_total", len(out), map[string]string{"mode": string(ModeClassic)})
	return out, nil
}
