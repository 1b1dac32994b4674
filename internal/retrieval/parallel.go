package retrieval

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jettpy/himpy-go/internal/query"
)

// parallelIndexed is strategy S3: the same candidate shortlist as the
// indexed strategy (index-backed for both expression queries and histogram
// probes), scored across a bounded worker pool. Cancellation is
// cooperative and checked only between candidates, not mid-score, matching
// the indexed strategy's own granularity so the two stay comparable under
// a deadline.
func (e *Engine) parallelIndexed(ctx context.Context, q query.Query) ([]Result, error) {
	evalStart := e.clock.Now()
	var tokens []query.Token
	var ords []uint32
	if q.IsProbe() {
		candidates := e.probeCandidates(q.Histogram())
		ords = make([]uint32, 0, candidates.GetCardinality())
		it := candidates.Iterator()
		for it.HasNext() {
			ords = append(ords, it.Next())
		}
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
		ords = make([]uint32, 0, candidate.DocIDs.GetCardinality())
		it := candidate.DocIDs.Iterator()
		for it.HasNext() {
			ords = append(ords, it.Next())
		}
	}
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(evalStart), map[string]string{"stage": "expression_eval", "mode": string(ModeParallel)})

	scoreStart := e.clock.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	// Each worker writes into its own slot, so results keep candidate order
	// and rank's stable sort breaks ties the same way the indexed strategy does.
	out := make([]Result, len(ords))
	for i, ord := range ords {
		i, ord := i, ord
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := e.docs[ord]
			score, err := e.score(q, tokens, entry.Histogram)
			if err != nil {
				return err
			}
			out[i] = Result{ID: entry.ID, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.metrics.ObserveHistogram("retrieval_stage_ms", e.millis(scoreStart), map[string]string{"stage": "score_eval", "mode": string(ModeParallel)})
	e.metrics.IncCounterBy("retrieval_candidates_total", len(out), map[string]string{"mode": string(ModeParallel)})
	return out, nil
}
