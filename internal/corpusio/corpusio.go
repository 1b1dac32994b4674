// Package corpusio loads a corpus and its group dictionary from disk,
// standing in for the "Corpus (external)" boundary: a document store the
// engine never assumes a particular shape for, only a way to arrive at
// CorpusEntry and group-dictionary values.
package corpusio

import (
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"

	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/histogram"
	"github.com/jettpy/himpy-go/internal/retrieval"
)

// DocumentFile is one YAML-encoded corpus document: an id and its raw
// element-key weights.
type DocumentFile struct {
	ID       string             `yaml:"id"`
	Elements map[string]float64 `yaml:"elements"`
}

// CorpusFile is the top-level shape of a corpus YAML file.
type CorpusFile struct {
	Documents []DocumentFile `yaml:"documents"`
}

// LoadCorpus reads a CorpusFile from path and converts it into the
// retrieval engine's entry type.
func LoadCorpus(path string) ([]retrieval.CorpusEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpusio: read corpus %s: %w", path, err)
	}
	var cf CorpusFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("corpusio: parse corpus %s: %w", path, err)
	}
	out := make([]retrieval.CorpusEntry, 0, len(cf.Documents))
	for _, doc := range cf.Documents {
		if doc.ID == "" {
			return nil, fmt.Errorf("corpusio: document missing id in %s", path)
		}
		h := histogram.New()
		for key, value := range doc.Elements {
			h.Add(key, value)
		}
		out = append(out, retrieval.CorpusEntry{ID: retrieval.DocID(doc.ID), Histogram: h})
	}
	return out, nil
}

// RulesFile is the top-level shape of a group-dictionary rules file: one
// ordered list of dimensions, each mapping group names to member element
// keys for that dimension.
type RulesFile struct {
	Dimensions []map[string][]string `yaml:"dimensions"`
}

// LoadGroupDictionary reads a RulesFile from path and builds a Dictionary
// from it. A missing file is reported as an error; callers that want an
// ungrouped corpus simply never call this function.
func LoadGroupDictionary(path string) (*groups.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpusio: read rules %s: %w", path, err)
	}
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("corpusio: parse rules %s: %w", path, err)
	}
	dims := make([]map[string]mapset.Set[string], len(rf.Dimensions))
	for i, dim := range rf.Dimensions {
		m := make(map[string]mapset.Set[string], len(dim))
		for name, keys := range dim {
			m[name] = mapset.NewThreadUnsafeSet(keys...)
		}
		dims[i] = m
	}
	dict, err := groups.New(dims...)
	if err != nil {
		return nil, fmt.Errorf("corpusio: build group dictionary from %s: %w", path, err)
	}
	return dict, nil
}
