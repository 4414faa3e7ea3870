// Package config provides configuration loading and structs for paperfeed.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Storage StorageConfig `yaml:"storage"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Scoring ScoringConfig `yaml:"scoring"`
	Export  ExportConfig  `yaml:"export"`
	Feeds   []Feed        `yaml:"feeds"`
}

// Feed is one configured journal feed.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Source returns the identifier stored in feed_source: the name when set,
// otherwise the URL.
func (f Feed) Source() string {
	if f.Name != "" {
		return f.Name
	}
	return f.URL
}

// StorageConfig holds paths for the article database and search index.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// FetchConfig holds HTTP settings for feed retrieval.
type FetchConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// TimeoutDuration parses the per-feed timeout, defaulting to 15s when unset
// or unparseable.
func (f FetchConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(f.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// ScoringConfig holds the weighted keyword model settings.
// Primary keywords are the core topical terms; context keywords are
// supporting terms that add relevance alongside them.
type ScoringConfig struct {
	PrimaryKeywords map[string]int `yaml:"primary_keywords"`
	ContextKeywords map[string]int `yaml:"context_keywords"`
	MinScore        int            `yaml:"min_score"`
}

// ExportConfig holds settings for the plain-text run artifact.
type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads and parses the config file at path, applies defaults,
// expands storage paths, and validates. Validation failures are returned
// before any network activity happens.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Export.Path = expandPath(cfg.Export.Path, configDir)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the config invariants the pipeline relies on.
func Validate(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("config: no feeds configured")
	}
	for i, f := range cfg.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			return fmt.Errorf("config: feed %d (%q): url is required", i, f.Name)
		}
		u, err := url.Parse(f.URL)
		if err != nil {
			return fmt.Errorf("config: feed %q: invalid url: %w", f.Source(), err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config: feed %q: url scheme must be http or https, got %q", f.Source(), u.Scheme)
		}
	}
	if err := validateWeights("primary_keywords", cfg.Scoring.PrimaryKeywords); err != nil {
		return err
	}
	if err := validateWeights("context_keywords", cfg.Scoring.ContextKeywords); err != nil {
		return err
	}
	if len(cfg.Scoring.PrimaryKeywords) == 0 && len(cfg.Scoring.ContextKeywords) == 0 {
		return fmt.Errorf("config: scoring: at least one keyword is required")
	}
	if cfg.Scoring.MinScore < 0 {
		return fmt.Errorf("config: scoring: min_score must be >= 0, got %d", cfg.Scoring.MinScore)
	}
	if cfg.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Fetch.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("config: fetch: invalid timeout %q", cfg.Fetch.Timeout)
		}
	}
	return nil
}

func validateWeights(section string, weights map[string]int) error {
	for term, w := range weights {
		if strings.TrimSpace(term) == "" {
			return fmt.Errorf("config: scoring: %s: empty keyword", section)
		}
		if w < 1 {
			return fmt.Errorf("config: scoring: %s: keyword %q has weight %d, must be >= 1", section, term, w)
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
