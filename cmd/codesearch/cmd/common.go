package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/codesearch/internal/config"
	"github.com/Aman-CERP/codesearch/internal/embed"
	"github.com/Aman-CERP/codesearch/internal/index"
	"github.com/Aman-CERP/codesearch/internal/search"
	"github.com/Aman-CERP/codesearch/internal/store"
)

// loadConfig resolves the layered configuration for the current working
// directory, falling back to hardcoded defaults if no config file exists
// or parsing fails.
func loadConfig() *config.Config {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	cfg, err := config.Load(dir)
	if err != nil {
		slog.Warn("falling back to default configuration", slog.String("error", err.Error()))
		return config.NewConfig()
	}
	return cfg
}

// openOrchestrator builds the store, embedder, and index.Orchestrator a
// command needs, honoring the --db flag override. Callers must Close the
// returned orchestrator.
func openOrchestrator(cfg *config.Config) (*index.Orchestrator, error) {
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	embedder := embed.NewStaticEmbedder()

	fusion := search.FusionConfig{
		TextWeight:   cfg.Fusion.TextWeight,
		VectorWeight: cfg.Fusion.VectorWeight,
		RRFConstant:  cfg.Fusion.RRFConstant,
	}
	orch, err := index.New(index.Deps{
		Store:    s,
		Embedder: embedder,
		Fusion:   &fusion,
		DBPath:   path,
	})
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return orch, nil
}
