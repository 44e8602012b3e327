// Package index implements the two entry points the rest of the system is
// built around: index(dir) walks a codebase, chunks what changed, and
// refreshes its search indices; search(query) dispatches a semantic,
// keyword, or hybrid query against every indexed codebase. Both are
// grounded in the teacher's internal/index/runner.go staging/logging
// pattern, stripped of everything that pattern did for a fundamentally
// different product: checkpoint/resume, thermal inter-batch delay,
// contextual LLM enrichment, and submodule discovery have no home here.
package index

import (
	"fmt"
	"time"
)

// ScanBatchSize is the number of changed files chunked and persisted
// together in one transaction before embeddings are requested for them.
const ScanBatchSize = 200

// EmbedBatchSize is the number of chunks embedded per external embedder
// call within a scan batch.
const EmbedBatchSize = 64

// Options configures one Index call. Languages, when non-empty, restricts
// scanning to files the language registry assigns one of these names;
// an empty slice means every registered language.
type Options struct {
	Languages []string
	Verbose   bool
}

// Result summarizes one Index call.
type Result struct {
	Files    int
	Chunks   int
	Embedded int
	Skipped  int
	Removed  int
	Errors   []string
	Duration time.Duration
}

// Mode selects which search legs a Search call runs.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeKeyword  Mode = "keyword"
	ModeHybrid   Mode = "hybrid"
)

// SearchOptions configures one Search call.
type SearchOptions struct {
	Limit          int
	Threshold      float64
	IncludeSnippet bool
	Mode           Mode
}

// DefaultSearchOptions returns the spec's defaults: 5 results, no
// threshold, snippets omitted, semantic mode.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:          5,
		Threshold:      0,
		IncludeSnippet: false,
		Mode:           ModeSemantic,
	}
}

// SearchResult is one ranked hit returned from Search.
type SearchResult struct {
	ChunkKey  string  `json:"chunk_key"`
	FilePath  string  `json:"file_path"`
	Name      string  `json:"name,omitempty"`
	Kind      string  `json:"kind,omitempty"`
	Signature string  `json:"signature,omitempty"`
	Snippet   string  `json:"snippet,omitempty"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Score     float64 `json:"score"`
}

// ErrUnsearchable reports that the health check found a populated database
// file with no chunk rows, the signature of a reader unable to see
// committed writes (most often concurrent locking or WAL visibility).
type ErrUnsearchable struct {
	Reason string
}

func (e ErrUnsearchable) Error() string {
	return fmt.Sprintf("database is not searchable: %s", e.Reason)
}
