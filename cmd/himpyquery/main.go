// Command himpyquery loads a corpus and optional group-dictionary rules
// file, runs one query expression against them, and prints the ranked
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jettpy/himpy-go/internal/config"
	"github.com/jettpy/himpy-go/internal/corpusio"
	"github.com/jettpy/himpy-go/internal/groups"
	"github.com/jettpy/himpy-go/internal/obs"
	"github.com/jettpy/himpy-go/internal/query"
	"github.com/jettpy/himpy-go/internal/retrieval"
)

func main() {
	configPath := flag.String("config", "", "Path to an engine config YAML file")
	corpusPath := flag.String("corpus", "", "Path to a corpus YAML file (overrides config)")
	rulesPath := flag.String("rules", "", "Path to a group-dictionary rules YAML file (overrides config)")
	mode := flag.String("mode", "", "Retrieval strategy: default, classic, or parallel (overrides config)")
	expr := flag.String("q", "", "Query expression, e.g. \"green + red\" (required)")
	topN := flag.Int("top-n", 10, "Keep only the top N results")
	lastN := flag.Int("last-n", 0, "Also print a trailing N-result tail from the same ranking (0 disables)")
	threshold := flag.Float64("threshold", 0.001, "Drop results at or below this score")
	verbose := flag.Bool("v", false, "Verbose logs")
	flag.Parse()

	if *expr == "" {
		fmt.Fprintln(os.Stderr, "Usage: himpyquery -corpus corpus.yaml -q \"green + red\" [-rules rules.yaml] [-mode default]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil && *corpusPath == "" {
		log.Fatalf("config error: %v", err)
	}
	if *corpusPath != "" {
		cfg.CorpusPath = *corpusPath
	}
	if *rulesPath != "" {
		cfg.RulesPath = *rulesPath
	}
	if *mode != "" {
		cfg.Mode = retrieval.Mode(*mode)
	}
	if cfg.Mode == "" {
		cfg.Mode = retrieval.ModeDefault
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	corpus, err := corpusio.LoadCorpus(cfg.CorpusPath)
	if err != nil {
		log.Fatalf("load corpus: %v", err)
	}

	var dict *groups.Dictionary
	if cfg.RulesPath != "" {
		dict, err = corpusio.LoadGroupDictionary(cfg.RulesPath)
		if err != nil {
			log.Fatalf("load rules: %v", err)
		}
	}

	obs.InitLogging(cfg.LogPath, cfg.LogLevel)
	logger := obs.ZerologLogger{}

	opts := []retrieval.Option{retrieval.WithLogger(logger), retrieval.WithWorkerPool(cfg.Workers)}
	engine, err := retrieval.NewEngine(corpus, dict, cfg.Mode, opts...)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	if *verbose {
		log.Printf("mode=%s corpus=%s rules=%s", cfg.Mode, cfg.CorpusPath, cfg.RulesPath)
	}

	retrieveOpts := []retrieval.RetrieveOption{retrieval.WithTopN(*topN), retrieval.WithThreshold(*threshold)}
	if *lastN > 0 {
		retrieveOpts = append(retrieveOpts, retrieval.WithLastN(*lastN))
	}
	result, err := engine.Retrieve(context.Background(), query.Expression(*expr), retrieveOpts...)
	if err != nil {
		log.Fatalf("retrieve: %v", err)
	}

	for _, r := range result.Top {
		fmt.Printf("%s\t%.6f\n", r.ID, r.Score)
	}
	if *lastN > 0 {
		fmt.Println("--- last ---")
		for _, r := range result.Last {
			fmt.Printf("%s\t%.6f\n", r.ID, r.Score)
		}
	}
}
