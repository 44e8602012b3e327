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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/codesearch/internal/chunk"
	"github.com/Aman-CERP/codesearch/internal/cserrors"
	"github.com/Aman-CERP/codesearch/internal/embed"
	"github.com/Aman-CERP/codesearch/internal/scanner"
	"github.com/Aman-CERP/codesearch/internal/search"
	"github.com/Aman-CERP/codesearch/internal/store"
)

// unsearchableSizeThreshold is the minimum database file size, in bytes,
// above which the health check may fire: a fresh or near-empty database
// legitimately has zero chunks.
const unsearchableSizeThreshold = 1_000_000

// chunkConcurrency bounds how many files within one scan batch are parsed
// concurrently, leaving headroom for the process's other goroutines.
func chunkConcurrency() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}

// Deps are the injected dependencies an Orchestrator needs. Store and
// Embedder are required; Registry, Fusion, Logger, and DBPath fall back to
// sane defaults when left zero.
type Deps struct {
	Store    store.Store
	Embedder embed.Embedder

	// Registry selects the tree-sitter grammars the scanner and chunker
	// recognize. Defaults to chunk.DefaultRegistry().
	Registry *chunk.LanguageRegistry

	// Fusion configures reciprocal rank fusion for hybrid search.
	// Defaults to search.DefaultFusionConfig().
	Fusion *search.FusionConfig

	// Logger receives structured per-stage index events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// DBPath is the on-disk database file path, used only by the search
	// health check to read the file's size. Leave empty to skip the check
	// (e.g. for an in-memory store in tests).
	DBPath string

	// LockPath is the file the single-writer advisory lock is taken
	// against during Index. Defaults to DBPath + ".lock".
	LockPath string
}

// Orchestrator owns the index(dir) and search(query) entry points: it
// wires the scanner, chunker, embedder, and store together into the
// batched streaming pipeline and the three search modes.
type Orchestrator struct {
	store    store.Store
	embedder embed.Embedder
	registry *chunk.LanguageRegistry
	scanner  *scanner.Scanner
	fusion   search.FusionConfig
	logger   *slog.Logger
	dbPath   string
	lockPath string

	healthChecked bool
	healthErr     error
}

// New builds an Orchestrator from deps, applying defaults for every
// optional field.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("index: store is required")
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("index: embedder is required")
	}

	registry := deps.Registry
	if registry == nil {
		registry = chunk.DefaultRegistry()
	}

	fusionCfg := search.DefaultFusionConfig()
	if deps.Fusion != nil {
		fusionCfg = *deps.Fusion
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lockPath := deps.LockPath
	if lockPath == "" && deps.DBPath != "" {
		lockPath = deps.DBPath + ".lock"
	}

	return &Orchestrator{
		store:    deps.Store,
		embedder: deps.Embedder,
		registry: registry,
		scanner:  scanner.New(registry),
		fusion:   fusionCfg,
		logger:   logger,
		dbPath:   deps.DBPath,
		lockPath: lockPath,
	}, nil
}

// Close releases the underlying store.
func (o *Orchestrator) Close() error {
	return o.store.Close()
}

// Index walks dir, chunks and persists every file whose content changed
// since the last run, embeds chunks left stale by that change, removes
// files no longer present on disk, and rebuilds the codebase's text index.
// Concurrent Index calls across processes are serialized by an advisory
// file lock.
func (o *Orchestrator) Index(ctx context.Context, dir string, opts Options) (*Result, error) {
	start := time.Now()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("index: resolve directory: %w", err)
	}

	unlock, err := o.acquireWriteLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cb, err := o.store.GetOrCreateCodebase(ctx, filepath.Base(absDir), absDir)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}

	scanResult, err := o.scanner.Scan(ctx, absDir)
	if err != nil {
		return nil, fmt.Errorf("index: scan %s: %w", absDir, err)
	}

	result := &Result{}
	for _, scanErr := range scanResult.Errors {
		result.Errors = append(result.Errors, scanErr.Error())
	}

	hashes, err := o.store.GetFileHashes(ctx, cb.ID)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}

	langFilter := languageSet(opts.Languages)
	activeFiles := make(map[string]bool, len(scanResult.Files))
	var toProcess []scanner.File
	for _, f := range scanResult.Files {
		activeFiles[f.Path] = true
		if langFilter != nil && !langFilter[f.Language] {
			continue
		}
		if existing, ok := hashes[f.Path]; ok && existing == f.Hash {
			result.Skipped++
			continue
		}
		toProcess = append(toProcess, f)
	}

	o.logger.Info("scan_complete",
		slog.String("dir", absDir),
		slog.Int("candidates", len(scanResult.Files)),
		slog.Int("to_process", len(toProcess)),
		slog.Int("skipped", result.Skipped),
	)
	if opts.Verbose {
		for _, e := range result.Errors {
			o.logger.Debug("scan_error", slog.String("detail", e))
		}
	}

	modelName := o.embedder.ModelName()

	for batchStart := 0; batchStart < len(toProcess); batchStart += ScanBatchSize {
		batchEnd := batchStart + ScanBatchSize
		if batchEnd > len(toProcess) {
			batchEnd = len(toProcess)
		}
		batch := toProcess[batchStart:batchEnd]

		files, chunksByPath, chunkErrs := o.chunkBatch(batch)
		result.Errors = append(result.Errors, chunkErrs...)
		if len(files) == 0 {
			continue
		}

		if err := o.store.BatchUpsertFileChunks(ctx, cb.ID, files, chunksByPath); err != nil {
			return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		result.Files += len(files)
		for _, chunks := range chunksByPath {
			result.Chunks += len(chunks)
		}

		embedded, err := o.embedStaleChunks(ctx, cb.ID, modelName)
		if err != nil {
			return nil, err
		}
		result.Embedded += embedded

		o.logger.Info("chunk_batch_complete",
			slog.Int("batch_start", batchStart),
			slog.Int("files", len(files)),
		)
	}

	// Each scan batch embeds the stale chunks it leaves behind; this final
	// pass covers a run with no batches at all: a model change can leave
	// every previously-stored chunk stale even when no file on disk changed.
	embedded, err := o.embedStaleChunks(ctx, cb.ID, modelName)
	if err != nil {
		return nil, err
	}
	result.Embedded += embedded

	stored, err := o.store.ListFiles(ctx, cb.ID)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}
	var stalePaths []string
	for _, f := range stored {
		if !activeFiles[f.Path] {
			stalePaths = append(stalePaths, f.Path)
		}
	}
	if len(stalePaths) > 0 {
		if err := o.store.RemoveStaleFiles(ctx, cb.ID, stalePaths); err != nil {
			return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
	}
	result.Removed = len(stalePaths)

	if err := o.store.RebuildFTSTable(ctx, cb.ID); err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}
	if err := o.store.TouchCodebase(ctx, cb.ID); err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}

	result.Duration = time.Since(start)
	o.logger.Info("index_complete",
		slog.String("dir", absDir),
		slog.Int("files", result.Files),
		slog.Int("chunks", result.Chunks),
		slog.Int("embedded", result.Embedded),
		slog.Int("skipped", result.Skipped),
		slog.Int("removed", result.Removed),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// acquireWriteLock takes the single-writer advisory lock for the duration
// of one Index call. With no DBPath/LockPath configured (e.g. an
// in-memory test store) locking is a no-op.
func (o *Orchestrator) acquireWriteLock(ctx context.Context) (func(), error) {
	if o.lockPath == "" {
		return func() {}, nil
	}

	fl := flock.New(o.lockPath)
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("index: acquire write lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("index: another process is already indexing (lock held at %s)", o.lockPath)
	}
	return func() { _ = fl.Unlock() }, nil
}

// languageSet builds a membership set from a language filter, or nil for
// "no filter".
func languageSet(languages []string) map[string]bool {
	if len(languages) == 0 {
		return nil
	}
	set := make(map[string]bool, len(languages))
	for _, lang := range languages {
		set[lang] = true
	}
	return set
}

// chunkBatch parses every file in batch concurrently (bounded by
// chunkConcurrency), then assembles the results back in batch order so a
// run's output is deterministic regardless of goroutine scheduling. A
// file's parse error is recorded and the file is dropped from this batch
// entirely, so it is retried on the next run rather than persisted with a
// stale or empty chunk set.
func (o *Orchestrator) chunkBatch(batch []scanner.File) ([]*store.IndexedFile, map[string][]*store.Chunk, []string) {
	type outcome struct {
		chunks []*chunk.Chunk
		err    error
	}
	outcomes := make([]outcome, len(batch))

	g := &errgroup.Group{}
	g.SetLimit(chunkConcurrency())
	for i, f := range batch {
		i, f := i, f
		g.Go(func() error {
			p := chunk.NewParserWithRegistry(o.registry)
			chunks, err := chunk.ChunkFile(p, o.registry, &chunk.File{
				AbsPath:  f.AbsPath,
				RelPath:  f.Path,
				Language: f.Language,
				Content:  f.Content,
			})
			outcomes[i] = outcome{chunks: chunks, err: err}
			return nil
		})
	}
	_ = g.Wait()

	now := time.Now()
	var files []*store.IndexedFile
	chunksByPath := make(map[string][]*store.Chunk)
	var errs []string
	for i, f := range batch {
		out := outcomes[i]
		if out.err != nil {
			errs = append(errs, cserrors.New(cserrors.ErrParseFailed, fmt.Sprintf("%s: %v", f.Path, out.err), out.err).Error())
			continue
		}
		files = append(files, &store.IndexedFile{
			Path:       f.Path,
			ContentSHA: f.Hash,
			Size:       f.Size,
			ModTime:    now,
		})
		chunksByPath[f.Path] = toStoreChunks(out.chunks)
	}
	return files, chunksByPath, errs
}

func toStoreChunks(chunks []*chunk.Chunk) []*store.Chunk {
	out := make([]*store.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = &store.Chunk{
			Key:       c.Key,
			FilePath:  c.FilePath,
			Language:  c.Language,
			Kind:      c.Kind,
			Name:      c.Name,
			Signature: c.Signature,
			Snippet:   c.Snippet,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}
	}
	return out
}

// embedStaleChunks embeds every chunk in codebaseID whose embedding is
// missing or was produced by a different model, in sub-batches of
// EmbedBatchSize, upserting vectors after each sub-batch completes.
func (o *Orchestrator) embedStaleChunks(ctx context.Context, codebaseID int64, modelName string) (int, error) {
	stale, err := o.store.GetStaleEmbeddings(ctx, codebaseID, modelName)
	if err != nil {
		return 0, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}

	embedded := 0
	for start := 0; start < len(stale); start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > len(stale) {
			end = len(stale)
		}
		sub := stale[start:end]

		texts := make([]string, len(sub))
		for i, c := range sub {
			texts[i] = buildEmbeddingInput(c)
		}

		vectors, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return embedded, cserrors.Wrap(cserrors.ErrEmbedderFailed, err)
		}
		if len(vectors) != len(sub) {
			return embedded, cserrors.New(cserrors.ErrDimensionMismatch,
				fmt.Sprintf("embedder returned %d vectors for %d inputs", len(vectors), len(sub)), nil)
		}
		for i, c := range sub {
			c.Embedding = vectors[i]
		}

		if err := o.store.BatchUpsertEmbeddings(ctx, codebaseID, sub, modelName); err != nil {
			return embedded, cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		embedded += len(sub)

		o.logger.Info("embed_batch_complete",
			slog.Int("batch_start", start),
			slog.Int("embedded", len(sub)),
		)
	}
	return embedded, nil
}

// buildEmbeddingInput assembles the text handed to the embedder for one
// chunk: the file path, an optional "kind name" header, the signature, and
// up to chunk.MaxSnippetChars of the snippet, each on its own line, with
// empty fields omitted.
func buildEmbeddingInput(c *store.Chunk) string {
	var b strings.Builder
	b.WriteString(c.FilePath)

	if c.Kind != "" || c.Name != "" {
		b.WriteString(": ")
		switch {
		case c.Kind != "" && c.Name != "":
			b.WriteString(c.Kind)
			b.WriteString(" ")
			b.WriteString(c.Name)
		case c.Kind != "":
			b.WriteString(c.Kind)
		default:
			b.WriteString(c.Name)
		}
	}

	if c.Signature != "" {
		b.WriteString("\n")
		b.WriteString(c.Signature)
	}

	if c.Snippet != "" {
		snippet := c.Snippet
		if len(snippet) > chunk.MaxSnippetChars {
			snippet = snippet[:chunk.MaxSnippetChars]
		}
		b.WriteString("\n")
		b.WriteString(snippet)
	}

	return b.String()
}

// Search dispatches query against the requested mode and returns up to
// opts.Limit results scoring at or above opts.Threshold. The first Search
// call against an Orchestrator runs the unsearchable-database health
// check.
func (o *Orchestrator) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if err := o.checkHealth(ctx); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchOptions().Limit
	}

	var hits []search.Hit
	var err error
	switch opts.Mode {
	case ModeKeyword:
		hits, err = o.keywordSearch(ctx, query, limit)
	case ModeHybrid:
		hits, err = o.hybridSearch(ctx, query, limit)
	case ModeSemantic, "":
		hits, err = o.semanticSearch(ctx, query, limit)
	default:
		return nil, fmt.Errorf("index: unknown search mode %q", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	results, err := o.resolveResults(ctx, hits, opts.IncludeSnippet)
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, r := range results {
		if r.Score >= opts.Threshold {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// semanticSearch embeds query once and runs it against the shared,
// cross-codebase vector index.
func (o *Orchestrator) semanticSearch(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	vec, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrEmbedderFailed, err)
	}
	matches, err := o.store.VectorSearch(ctx, 0, vec, limit)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}
	hits := make([]search.Hit, len(matches))
	for i, m := range matches {
		hits[i] = search.Hit{CodebaseID: m.CodebaseID, ChunkKey: m.ChunkKey, Score: 1 - float64(m.Distance)}
	}
	return hits, nil
}

// keywordSearch preprocesses query in keywords mode and, if anything
// survives, runs it against every codebase's text table, merging and
// truncating the combined results. An empty preprocessed query yields no
// results without touching the store.
func (o *Orchestrator) keywordSearch(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	keywords := search.Preprocess(query, search.ModeKeywords)
	if keywords == "" {
		return nil, nil
	}

	codebases, err := o.store.ListCodebases(ctx)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}

	var all []search.Hit
	for _, cb := range codebases {
		matches, err := o.store.TextSearch(ctx, cb.ID, keywords, limit)
		if err != nil {
			if isMissingIndexErr(err) {
				continue
			}
			return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		for _, m := range matches {
			// bm25() is lower-is-better; negate so Score is higher-is-better
			// like every other search mode's Score.
			all = append(all, search.Hit{CodebaseID: cb.ID, ChunkKey: m.ChunkKey, Score: -m.Score})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].ChunkKey < all[j].ChunkKey
	})
	return search.Truncate(all, limit), nil
}

// hybridSearch runs the semantic and keyword legs concurrently (the same
// parallel-then-fuse shape as the teacher's pkg/searcher/fusion.go
// hybridSearch), fuses each codebase's pair of legs independently since a
// chunk key is only unique within a codebase, then merges, re-sorts, and
// truncates the per-codebase fused lists.
func (o *Orchestrator) hybridSearch(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	fetchLimit := limit * 2
	if fetchLimit < 20 {
		fetchLimit = 20
	}

	var vectorMatches []*store.VectorMatch
	var codebases []*store.Codebase
	textByCodebase := make(map[int64][]*store.TextMatch)

	keywords := search.Preprocess(query, search.ModeKeywords)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec, err := o.embedder.Embed(gctx, query)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrEmbedderFailed, err)
		}
		vectorMatches, err = o.store.VectorSearch(gctx, 0, vec, fetchLimit)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		codebases, err = o.store.ListCodebases(gctx)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		if keywords == "" {
			return nil
		}
		for _, cb := range codebases {
			matches, err := o.store.TextSearch(gctx, cb.ID, keywords, fetchLimit)
			if err != nil {
				if isMissingIndexErr(err) {
					continue
				}
				return cserrors.Wrap(cserrors.ErrStorageFatal, err)
			}
			textByCodebase[cb.ID] = matches
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vectorByCodebase := make(map[int64][]*store.VectorMatch)
	for _, m := range vectorMatches {
		vectorByCodebase[m.CodebaseID] = append(vectorByCodebase[m.CodebaseID], m)
	}

	seen := make(map[int64]bool, len(codebases))
	var all []search.Hit
	for _, cb := range codebases {
		seen[cb.ID] = true
		hits := search.Fuse(textByCodebase[cb.ID], vectorByCodebase[cb.ID], cb.ID, o.fusion)
		all = append(all, hits...)
	}
	// A codebase the vector leg surfaced but ListCodebases somehow missed
	// (a race with a concurrent delete) still gets its vector-only hits.
	for id, matches := range vectorByCodebase {
		if seen[id] {
			continue
		}
		all = append(all, search.Fuse(nil, matches, id, o.fusion)...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].ChunkKey < all[j].ChunkKey
	})
	return search.Truncate(all, limit), nil
}

// isMissingIndexErr reports whether err reflects an absent FTS table or
// index, which fts_search tolerates as an empty result set for that
// codebase rather than propagating.
func isMissingIndexErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "no such index")
}

// resolveResults dereferences each hit's chunk key to its stored row,
// grouped by codebase since GetChunks is scoped to one codebase at a time.
func (o *Orchestrator) resolveResults(ctx context.Context, hits []search.Hit, includeSnippet bool) ([]SearchResult, error) {
	keysByCodebase := make(map[int64][]string)
	for _, h := range hits {
		keysByCodebase[h.CodebaseID] = append(keysByCodebase[h.CodebaseID], h.ChunkKey)
	}

	chunksByKey := make(map[string]*store.Chunk, len(hits))
	for codebaseID, keys := range keysByCodebase {
		chunks, err := o.store.GetChunks(ctx, codebaseID, keys)
		if err != nil {
			return nil, cserrors.Wrap(cserrors.ErrStorageFatal, err)
		}
		for _, c := range chunks {
			chunksByKey[c.Key] = c
		}
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		c, ok := chunksByKey[h.ChunkKey]
		if !ok {
			continue
		}
		r := SearchResult{
			ChunkKey:  c.Key,
			FilePath:  c.FilePath,
			Name:      c.Name,
			Kind:      c.Kind,
			Signature: c.Signature,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
			Score:     h.Score,
		}
		if includeSnippet {
			r.Snippet = c.Snippet
		}
		results = append(results, r)
	}
	return results, nil
}

// checkHealth runs the unsearchable-database check once per Orchestrator:
// if the database file exists, exceeds unsearchableSizeThreshold, and at
// least one codebase is registered, but the sum of indexed chunk counts is
// zero, every search would silently come back empty, the signature of a
// reader that can't see a writer's committed data (concurrent locking, or
// an inaccessible write-ahead log).
func (o *Orchestrator) checkHealth(ctx context.Context) error {
	if o.healthChecked {
		return o.healthErr
	}
	o.healthChecked = true
	o.healthErr = o.runHealthCheck(ctx)
	return o.healthErr
}

func (o *Orchestrator) runHealthCheck(ctx context.Context) error {
	if o.dbPath == "" {
		return nil
	}
	info, err := os.Stat(o.dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("index: stat database: %w", err)
	}
	if info.Size() <= unsearchableSizeThreshold {
		return nil
	}

	codebases, err := o.store.ListCodebases(ctx)
	if err != nil {
		return cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}
	if len(codebases) == 0 {
		return nil
	}

	total, err := o.store.TotalIndexedChunkCount(ctx)
	if err != nil {
		return cserrors.Wrap(cserrors.ErrStorageFatal, err)
	}
	if total == 0 {
		return cserrors.New(cserrors.ErrUnsearchable,
			"database file is populated but no chunks are indexed; this usually means a concurrent writer holds the lock or the write-ahead log is inaccessible",
			nil).WithSuggestion("check for another process holding the write lock, or that the database file's WAL sidecar is readable")
	}
	return nil
}
