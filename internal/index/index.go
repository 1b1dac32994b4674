// Package index is the inverted index: a map from element key to the set
// of internal document ordinals whose histogram contains that key. It is
// built once by the retrieval engine and is read-only for the lifetime of
// the engine instance.
package index

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

// PostingIndex maps element keys to roaring bitmaps of internal document
// ordinals (dense uint32s assigned by the retrieval engine at corpus
// ingest time; roaring bitmaps require small-integer members, so the
// engine's opaque external doc ids are never stored here directly).
type PostingIndex struct {
	postings map[string]*roaring.Bitmap
}

// New returns an empty PostingIndex.
func New() *PostingIndex {
	return &PostingIndex{postings: make(map[string]*roaring.Bitmap)}
}

// Add records that internal document ordinal docOrd's histogram contains
// key.
func (p *PostingIndex) Add(key string, docOrd uint32) {
	b, ok := p.postings[key]
	if !ok {
		b = roaring.New()
		p.postings[key] = b
	}
	b.Add(docOrd)
}

// Lookup returns the posting list for key, if any.
func (p *PostingIndex) Lookup(key string) (*roaring.Bitmap, bool) {
	b, ok := p.postings[key]
	return b, ok
}

// Keys returns every indexed key.
func (p *PostingIndex) Keys() []string {
	out := make([]string, 0, len(p.postings))
	for k := range p.postings {
		out = append(out, k)
	}
	return out
}

// Len returns the number of distinct indexed keys.
func (p *PostingIndex) Len() int { return len(p.postings) }
