// Package config loads the query engine's runtime configuration: which
// corpus and group-dictionary files to load, which retrieval mode and
// worker pool size to run with, and where to send logs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jettpy/himpy-go/internal/retrieval"
)

// EngineConfig is the full set of knobs needed to stand up a
// retrieval.Engine: where its corpus and group-dictionary rules live, which
// strategy to run, how large its worker pool is, and how it logs.
type EngineConfig struct {
	CorpusPath string        `yaml:"corpus_path"`
	RulesPath  string        `yaml:"rules_path,omitempty"`
	Mode       retrieval.Mode `yaml:"mode"`
	Workers    int           `yaml:"workers,omitempty"`
	LogPath    string        `yaml:"log_path,omitempty"`
	LogLevel   string        `yaml:"log_level,omitempty"`
}

// defaults mirrors the values NewEngine itself falls back to, so a
// zero-value EngineConfig is still usable.
func defaults() EngineConfig {
	return EngineConfig{
		Mode:     retrieval.ModeDefault,
		Workers:  4,
		LogLevel: "info",
	}
}

// Load reads path as YAML into an EngineConfig seeded with defaults, then
// applies HIMPY_-prefixed environment variable overrides (loading .env
// first, if present, without failing when it's absent).
func Load(path string) (EngineConfig, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return EngineConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *EngineConfig) {
	if v := strings.TrimSpace(os.Getenv("HIMPY_CORPUS_PATH")); v != "" {
		cfg.CorpusPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HIMPY_RULES_PATH")); v != "" {
		cfg.RulesPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HIMPY_MODE")); v != "" {
		cfg.Mode = retrieval.Mode(v)
	}
	if v := strings.TrimSpace(os.Getenv("HIMPY_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("HIMPY_LOG_PATH")); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(os.Getenv("HIMPY_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the required fields are present and the mode is one
// NewEngine can actually run.
func (c EngineConfig) Validate() error {
	if c.CorpusPath == "" {
		return fmt.Errorf("config: corpus_path is required")
	}
	switch c.Mode {
	case retrieval.ModeDefault, retrieval.ModeClassic, retrieval.ModeParallel:
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}
	return nil
}
