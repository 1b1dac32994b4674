package eval_test

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jettpy/himpy-go/internal/eval"
	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/histogram"
	"github.com/jettpy/himpy-go/internal/index"
	"github.com/jettpy/himpy-go/internal/query"
)

// buildT1 mirrors the seed-scenario corpus used across the histogram and
// retrieval tests: three documents over a single shared dimension.
func buildT1() (h1, h2, h3 *histogram.Histogram) {
	h1 = histogram.New()
	h1.Add("e1", 0.6)
	h1.Add("e31", 0.4)
	h2 = histogram.New()
	h2.Add("e2", 1.0)
	h3 = histogram.New()
	h3.Add("e31", 0.5)
	h3.Add("e32", 0.5)
	return h1, h2, h3
}

func buildT1Dict(t *testing.T) *groups.Dictionary {
	t.Helper()
	dict, err := groups.New(map[string]mapset.Set[string]{
		"green": mapset.NewThreadUnsafeSet("e1", "e2"),
		"red":   mapset.NewThreadUnsafeSet("e31", "e32"),
	})
	require.NoError(t, err)
	return dict
}

func mustParse(t *testing.T, expr string) []query.Token {
	t.Helper()
	toks, err := query.Parse(expr)
	require.NoError(t, err)
	return toks
}

func TestScoreRawKeyUnion(t *testing.T) {
	h1, _, _ := buildT1()
	e := eval.New(nil)
	set, err := e.Score(mustParse(t, "e1 + e31"), h1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, set.Sum(), 1e-9)
}

func TestScoreGroupIntersection(t *testing.T) {
	h3, _, _ := (func() (*histogram.Histogram, *histogram.Histogram, *histogram.Histogram) {
		a, b, c := buildT1()
		return c, a, b
	})()
	dict := buildT1Dict(t)
	e := eval.New(dict)
	// h3 = {e31: 0.5, e32: 0.5}; "red" = {e31, e32}; "green" = {e1, e2}
	set, err := e.Score(mustParse(t, "red * green"), h3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, set.Sum(), 1e-9)
}

func TestScoreUnaryMinusNegatesValue(t *testing.T) {
	h1, _, _ := buildT1()
	e := eval.New(nil)
	set, err := e.Score(mustParse(t, "-e1"), h1)
	require.NoError(t, err)
	assert.InDelta(t, -0.6, set.Sum(), 1e-9)
}

func TestScoreUnknownKeyResolvesEmpty(t *testing.T) {
	h1, _, _ := buildT1()
	e := eval.New(nil)
	set, err := e.Score(mustParse(t, "nope"), h1)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.InDelta(t, 0.0, set.Sum(), 1e-9)
}

func TestScoreDimensionMismatchErrors(t *testing.T) {
	h1, _, _ := buildT1()
	dict := buildT1Dict(t)
	e := eval.New(dict)
	_, err := e.Score(mustParse(t, "(green, red)"), h1)
	assert.Error(t, err)
}

// buildPostingIndex assigns internal ordinals 0,1,2 to h1,h2,h3 in that
// order and builds an inverted index over their raw element keys, mirroring
// what the retrieval engine does at corpus ingest time.
func buildPostingIndex() (*index.PostingIndex, map[string]*histogram.Histogram) {
	idx := index.New()
	docs := map[uint32]*histogram.Histogram{}
	h1, h2, h3 := buildT1()
	docs[0], docs[1], docs[2] = h1, h2, h3
	for ord, h := range docs {
		for _, key := range h.Elements() {
			idx.Add(key, ord)
		}
	}
	return idx, map[string]*histogram.Histogram{"h1": h1, "h2": h2, "h3": h3}
}

func TestExpressionRawKeyLookup(t *testing.T) {
	idx, _ := buildPostingIndex()
	e := eval.New(nil)
	cand, err := e.Expression(mustParse(t, "e31"), idx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cand.DocIDs.GetCardinality())
	assert.True(t, cand.DocIDs.Contains(0))
	assert.True(t, cand.DocIDs.Contains(2))
}

func TestExpressionGroupUnion(t *testing.T) {
	idx, _ := buildPostingIndex()
	dict := buildT1Dict(t)
	e := eval.New(dict)
	cand, err := e.Expression(mustParse(t, "green"), idx)
	require.NoError(t, err)
	// green = {e1, e2}; e1 -> doc0, e2 -> doc1
	assert.Equal(t, uint64(2), cand.DocIDs.GetCardinality())
	assert.True(t, cand.DocIDs.Contains(0))
	assert.True(t, cand.DocIDs.Contains(1))
}

func TestExpressionIntersectionRequiresKeyOverlap(t *testing.T) {
	idx, _ := buildPostingIndex()
	dict := buildT1Dict(t)
	e := eval.New(dict)
	cand, err := e.Expression(mustParse(t, "green * red"), idx)
	require.NoError(t, err)
	// green and red share no element keys, so the index-layer intersection
	// short-circuits to empty even before touching document ids.
	assert.Equal(t, uint64(0), cand.DocIDs.GetCardinality())
}

func TestExpressionUnaryMinusIsRejected(t *testing.T) {
	idx, _ := buildPostingIndex()
	e := eval.New(nil)
	_, err := e.Expression(mustParse(t, "-e1"), idx)
	assert.Error(t, err)
}

func TestExpressionXorIsSymmetricDifference(t *testing.T) {
	idx, _ := buildPostingIndex()
	e := eval.New(nil)
	// e1 -> {doc0}, e2 -> {doc1}: disjoint, so xor == union at the index layer.
	cand, err := e.Expression(mustParse(t, "e1 #| e2"), idx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cand.DocIDs.GetCardinality())
}
