/*
Package config manages this program's own TOML-backed runtime tunables:
worker count, cache location, and the fuzzy-matching constants (edit
budget, suggestion threshold).

This is distinct from the dictionary/CLI settings file
(code-spellcheck.json), whose Settings shape and minimal strict-JSON
reader (LoadSettings) live in settings.go.

Init handles automatic config file creation and loading with
fallback to defaults.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/csc-dev/codespell/internal/utils"
	"github.com/csc-dev/codespell/pkg/multiindex"
)

// Config holds every runtime tunable.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// EngineConfig records the fuzzy-suggestion constants in the config file.
// The suggestion search does not read these values: it always uses
// multiindex.FuzzyBudget and multiindex.SuggestionThreshold.
type EngineConfig struct {
	FuzzyBudget         int     `toml:"fuzzy_budget"`
	SuggestionThreshold float64 `toml:"suggestion_threshold"`
}

// PipelineConfig controls the check pipeline's resource usage. CacheDir is
// not read by the check command, which always caches under the data
// directory's cache/ folder.
type PipelineConfig struct {
	Workers           int    `toml:"workers"`
	MaxFileSize       int64  `toml:"max_file_size"`
	CacheDir          string `toml:"cache_dir"`
	FilterCustomWords bool   `toml:"filter_custom_words"`
}

// Default returns a Config with the same constants pkg/multiindex defaults
// to, so a freshly-written config file documents the engine's real
// behavior rather than placeholder values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			FuzzyBudget:         multiindex.FuzzyBudget,
			SuggestionThreshold: multiindex.SuggestionThreshold,
		},
		Pipeline: PipelineConfig{
			Workers:           0, // 0 means runtime.NumCPU()
			MaxFileSize:       5 * 1024 * 1024,
			FilterCustomWords: true,
		},
	}
}

// Init loads configPath, creating it with Default() values if absent.
func Init(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return cfg, nil
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return Default(), nil
	}
	return cfg, nil
}

// Load reads a Config from a TOML file. If the full struct fails to decode
// (e.g. a future field was hand-edited into something the current Config
// can't represent), it falls back to a lenient key-value pass so an
// otherwise-valid engine/pipeline section isn't lost over one bad field.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := utils.LoadTOMLFile(configPath, &cfg); err != nil {
		raw, rawErr := utils.ParseTOMLWithRecovery(configPath)
		if rawErr != nil {
			log.Errorf("Failed to decode config file: %v", err)
			return nil, err
		}
		cfg = *Default()
		if section, ok := utils.ExtractSection(raw, "engine"); ok {
			if n, ok := utils.ExtractInt64(section, "fuzzy_budget"); ok {
				cfg.Engine.FuzzyBudget = n
			}
			if f, ok := section["suggestion_threshold"].(float64); ok {
				cfg.Engine.SuggestionThreshold = f
			}
		}
		if section, ok := utils.ExtractSection(raw, "pipeline"); ok {
			if n, ok := utils.ExtractInt64(section, "workers"); ok {
				cfg.Pipeline.Workers = n
			}
			if n, ok := utils.ExtractInt64(section, "max_file_size"); ok {
				cfg.Pipeline.MaxFileSize = int64(n)
			}
			if s, ok := section["cache_dir"].(string); ok {
				cfg.Pipeline.CacheDir = s
			}
			if b, ok := utils.ExtractBool(section, "filter_custom_words"); ok {
				cfg.Pipeline.FilterCustomWords = b
			}
		}
	}
	return &cfg, nil
}

// Save writes cfg to a TOML file.
func Save(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
