package retrieval

import "sort"

// rank applies the threshold/top-N/last-N selection shared by every
// strategy: filter out scores at or below threshold, sort descending by
// score (ties broken by the order results were appended in, i.e. a stable
// sort), then split what remains into a top-N list and, if opts.LastN > 0,
// a distinct last-N tail. A zero TopN means "no limit" on the top list; a
// zero LastN leaves RetrieveResult.Last nil rather than an empty slice, so
// callers can tell "no tail requested" apart from "tail requested but
// empty".
func rank(results []Result, opts RetrieveOptions) RetrieveResult {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score > opts.Threshold {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	top := kept
	if opts.TopN > 0 && opts.TopN < len(kept) {
		top = kept[:opts.TopN]
	}

	out := RetrieveResult{Top: top}
	if opts.LastN > 0 {
		n := opts.LastN
		if n > len(kept) {
			n = len(kept)
		}
		last := make([]Result, n)
		copy(last, kept[len(kept)-n:])
		out.Last = last
	}
	return out
}
