// Package config loads codesearch's tunables from a four-layer stack
// of defaults, a user-global YAML file, a per-project YAML override, and
// environment variables, mirroring the teacher's own config precedence.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is codesearch's full set of tunables. Every field here is named
// in SPEC_FULL.md §7's configuration section; nothing here controls
// feature scope, only the tunable constants the spec explicitly calls
// out as overridable (database path, embedding model/dimensions/batch
// size, RRF weights/constant, scan batch size, language allow-list,
// log level).
type Config struct {
	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Fusion    FusionConfig    `yaml:"fusion" json:"fusion"`
	Scanner   ScannerConfig   `yaml:"scanner" json:"scanner"`
	Languages []string        `yaml:"languages" json:"languages"`
	LogLevel  string          `yaml:"log_level" json:"log_level"`
}

// DatabaseConfig locates the single SQLite database all codebases share.
type DatabaseConfig struct {
	// Path is the on-disk location of the database file.
	Path string `yaml:"path" json:"path"`
}

// EmbeddingConfig configures the embedder used to build the vector leg.
type EmbeddingConfig struct {
	// Model identifies the embedder; stored alongside each chunk's
	// embedding so a model change can be detected as staleness.
	Model string `yaml:"model" json:"model"`

	// Dimensions is the embedding width. Must match the width the
	// shared chunk_vectors table was created with.
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// BatchSize is the number of texts embedded per EmbedBatch call.
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// FusionConfig configures reciprocal rank fusion. Per spec.md §9 these
// are "tunable constants, not semantic contracts" — overridable, unlike
// the RRF formula itself.
type FusionConfig struct {
	RRFConstant  int     `yaml:"rrf_constant" json:"rrf_constant"`
	TextWeight   float64 `yaml:"text_weight" json:"text_weight"`
	VectorWeight float64 `yaml:"vector_weight" json:"vector_weight"`
}

// ScannerConfig configures scan-time batching.
type ScannerConfig struct {
	// BatchSize is the number of files processed per chunk-and-persist
	// batch during index().
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

// NewConfig returns the hardcoded defaults, before any file or
// environment layering is applied.
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},
		Embedding: EmbeddingConfig{
			Model:      "static",
			Dimensions: 384,
			BatchSize:  64,
		},
		Fusion: FusionConfig{
			RRFConstant:  60,
			TextWeight:   0.4,
			VectorWeight: 0.6,
		},
		Scanner: ScannerConfig{
			BatchSize: 200,
		},
		Languages: nil, // nil means "every registered language"
		LogLevel:  "info",
	}
}

// DefaultDatabasePath returns $HOME/.config/codesearch/codesearch.db (or
// $USERPROFILE on Windows), falling back to the current directory.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "codesearch.db")
	}
	return filepath.Join(home, ".config", "codesearch", "codesearch.db")
}

// UserConfigPath returns the user-global config file path, honoring
// XDG_CONFIG_HOME when set.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codesearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".config", "codesearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "codesearch", "config.yaml")
}

// Load builds the final configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User-global config (UserConfigPath())
//  3. Project config (<dir>/.codesearch.yaml)
//  4. Environment variables (CODESEARCH_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := UserConfigPath(); fileExists(userPath) {
		if err := cfg.mergeYAMLFile(userPath); err != nil {
			return nil, fmt.Errorf("load user config: %w", err)
		}
	}

	projectPath := filepath.Join(dir, ".codesearch.yaml")
	if fileExists(projectPath) {
		if err := cfg.mergeYAMLFile(projectPath); err != nil {
			return nil, fmt.Errorf("load project config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeYAMLFile parses path and merges its non-zero fields into c.
func (c *Config) mergeYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero fields of other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Database.Path != "" {
		c.Database.Path = other.Database.Path
	}
	if other.Embedding.Model != "" {
		c.Embedding.Model = other.Embedding.Model
	}
	if other.Embedding.Dimensions != 0 {
		c.Embedding.Dimensions = other.Embedding.Dimensions
	}
	if other.Embedding.BatchSize != 0 {
		c.Embedding.BatchSize = other.Embedding.BatchSize
	}
	if other.Fusion.RRFConstant != 0 {
		c.Fusion.RRFConstant = other.Fusion.RRFConstant
	}
	if other.Fusion.TextWeight != 0 {
		c.Fusion.TextWeight = other.Fusion.TextWeight
	}
	if other.Fusion.VectorWeight != 0 {
		c.Fusion.VectorWeight = other.Fusion.VectorWeight
	}
	if other.Scanner.BatchSize != 0 {
		c.Scanner.BatchSize = other.Scanner.BatchSize
	}
	if len(other.Languages) > 0 {
		c.Languages = other.Languages
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides layers CODESEARCH_* environment variables over c,
// taking precedence over both config files.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CODESEARCH_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("CODESEARCH_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("CODESEARCH_EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embedding.Dimensions = n
		}
	}
	if v := os.Getenv("CODESEARCH_EMBEDDING_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embedding.BatchSize = n
		}
	}
	if v := os.Getenv("CODESEARCH_RRF_CONSTANT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Fusion.RRFConstant = n
		}
	}
	if v := os.Getenv("CODESEARCH_TEXT_WEIGHT"); v != "" {
		if w, err := parseFloat64(v); err == nil && w >= 0 && w <= 1 {
			c.Fusion.TextWeight = w
		}
	}
	if v := os.Getenv("CODESEARCH_VECTOR_WEIGHT"); v != "" {
		if w, err := parseFloat64(v); err == nil && w >= 0 && w <= 1 {
			c.Fusion.VectorWeight = w
		}
	}
	if v := os.Getenv("CODESEARCH_SCANNER_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scanner.BatchSize = n
		}
	}
	if v := os.Getenv("CODESEARCH_LANGUAGES"); v != "" {
		c.Languages = strings.Split(v, ",")
	}
	if v := os.Getenv("CODESEARCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// parseFloat64 parses a string to float64.
func parseFloat64(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &f)
	return f, err
}

// Validate rejects an internally inconsistent configuration.
func (c *Config) Validate() error {
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Fusion.RRFConstant <= 0 {
		return fmt.Errorf("fusion.rrf_constant must be positive, got %d", c.Fusion.RRFConstant)
	}
	if c.Fusion.TextWeight < 0 || c.Fusion.TextWeight > 1 {
		return fmt.Errorf("fusion.text_weight must be between 0 and 1, got %f", c.Fusion.TextWeight)
	}
	if c.Fusion.VectorWeight < 0 || c.Fusion.VectorWeight > 1 {
		return fmt.Errorf("fusion.vector_weight must be between 0 and 1, got %f", c.Fusion.VectorWeight)
	}
	if sum := c.Fusion.TextWeight + c.Fusion.VectorWeight; math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("fusion.text_weight + fusion.vector_weight must equal 1.0, got %.2f", sum)
	}
	if c.Scanner.BatchSize <= 0 {
		return fmt.Errorf("scanner.batch_size must be positive, got %d", c.Scanner.BatchSize)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}
	return nil
}

// WriteYAML writes c to path, for `codesearch config init`-style tooling.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
