package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

const timeLayout = time.RFC3339Nano

// GetOrCreateCodebase returns the existing codebase row for rootPath, or
// creates one (and its FTS table) if none exists yet.
func (s *SQLiteStore) GetOrCreateCodebase(ctx context.Context, name, rootPath string) (*Codebase, error) {
	if cb, err := s.getCodebaseByPath(ctx, rootPath); err == nil {
		return cb, nil
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO codebases (name, root_path, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, rootPath, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("store: create codebase %q: %w", rootPath, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: read new codebase id: %w", err)
	}
	if err := ensureCodebaseFTSTable(s.db, id); err != nil {
		return nil, err
	}
	return &Codebase{ID: id, Name: name, RootPath: rootPath, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}, nil
}

func (s *SQLiteStore) getCodebaseByPath(ctx context.Context, rootPath string) (*Codebase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, root_path, created_at, updated_at FROM codebases WHERE root_path = ?`,
		rootPath,
	)
	return scanCodebase(row)
}

func scanCodebase(row *sql.Row) (*Codebase, error) {
	var cb Codebase
	var created, updated string
	if err := row.Scan(&cb.ID, &cb.Name, &cb.RootPath, &created, &updated); err != nil {
		return nil, err
	}
	cb.CreatedAt, _ = time.Parse(timeLayout, created)
	cb.UpdatedAt, _ = time.Parse(timeLayout, updated)
	return &cb, nil
}

// ListCodebases returns every known codebase with its current file/chunk
// counts.
func (s *SQLiteStore) ListCodebases(ctx context.Context) ([]*Codebase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.root_path, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM indexed_files f WHERE f.codebase_id = c.id),
		       (SELECT COUNT(*) FROM chunks k WHERE k.codebase_id = c.id)
		FROM codebases c ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list codebases: %w", err)
	}
	defer rows.Close()

	var out []*Codebase
	for rows.Next() {
		var cb Codebase
		var created, updated string
		if err := rows.Scan(&cb.ID, &cb.Name, &cb.RootPath, &created, &updated, &cb.FileCount, &cb.ChunkCount); err != nil {
			return nil, fmt.Errorf("store: scan codebase row: %w", err)
		}
		cb.CreatedAt, _ = time.Parse(timeLayout, created)
		cb.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, &cb)
	}
	return out, rows.Err()
}

// GetFileHashes returns every known file's last-indexed content hash,
// keyed by path, for incremental scan comparison.
func (s *SQLiteStore) GetFileHashes(ctx context.Context, codebaseID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, content_sha FROM indexed_files WHERE codebase_id = ?`, codebaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get file hashes: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, sha string
		if err := rows.Scan(&path, &sha); err != nil {
			return nil, fmt.Errorf("store: scan file hash row: %w", err)
		}
		out[path] = sha
	}
	return out, rows.Err()
}

// ListFiles returns every indexed_files row for a codebase.
func (s *SQLiteStore) ListFiles(ctx context.Context, codebaseID int64) ([]*IndexedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT codebase_id, path, content_sha, size_bytes, mod_time, indexed_at, chunk_count
		 FROM indexed_files WHERE codebase_id = ? ORDER BY path`, codebaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list files: %w", err)
	}
	defer rows.Close()

	var out []*IndexedFile
	for rows.Next() {
		var f IndexedFile
		var mod, indexed string
		if err := rows.Scan(&f.CodebaseID, &f.Path, &f.ContentSHA, &f.Size, &mod, &indexed, &f.ChunkCount); err != nil {
			return nil, fmt.Errorf("store: scan indexed file row: %w", err)
		}
		f.ModTime, _ = time.Parse(timeLayout, mod)
		f.IndexedAt, _ = time.Parse(timeLayout, indexed)
		out = append(out, &f)
	}
	return out, rows.Err()
}

// BatchUpsertFileChunks replaces, in one transaction, the indexed_files row
// and every chunk for each file named in files: stale chunks (and their
// FTS/vector rows) are deleted before the fresh set is inserted, so a file
// that shrank from five chunks to two doesn't leave three orphans behind.
func (s *SQLiteStore) BatchUpsertFileChunks(ctx context.Context, codebaseID int64, files []*IndexedFile, chunksByPath map[string][]*Chunk) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin batch upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)
	fts := ftsTableName(codebaseID)

	for _, f := range files {
		if err := s.deleteChunksForPath(ctx, tx, codebaseID, f.Path); err != nil {
			return err
		}

		chunkCount := len(chunksByPath[f.Path])
		_, err := tx.ExecContext(ctx, `
			INSERT INTO indexed_files (codebase_id, path, content_sha, size_bytes, mod_time, indexed_at, chunk_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(codebase_id, path) DO UPDATE SET
				content_sha = excluded.content_sha,
				size_bytes  = excluded.size_bytes,
				mod_time    = excluded.mod_time,
				indexed_at  = excluded.indexed_at,
				chunk_count = excluded.chunk_count
		`, codebaseID, f.Path, f.ContentSHA, f.Size, f.ModTime.UTC().Format(timeLayout), now, chunkCount)
		if err != nil {
			return fmt.Errorf("store: upsert indexed_files for %q: %w", f.Path, err)
		}

		for _, c := range chunksByPath[f.Path] {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO chunks (codebase_id, chunk_key, file_path, language, kind, name, signature, snippet, start_line, end_line, embedding_model, has_embedding)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '', 0)
			`), codebaseID, c.Key, c.FilePath, c.Language, c.Kind, c.Name, c.Signature, c.Snippet, c.StartLine, c.EndLine); err != nil {
				return fmt.Errorf("store: insert chunk %q: %w", c.Key, err)
			}
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(
				`INSERT INTO %s (chunk_key, name, signature, snippet) VALUES (?, ?, ?, ?)`, fts,
			), c.Key, c.Name, c.Signature, c.Snippet); err != nil {
				return fmt.Errorf("store: insert fts row for %q: %w", c.Key, err)
			}
		}
	}

	return tx.Commit()
}

// deleteChunksForPath removes every chunk, FTS row, and vector row
// belonging to path within codebaseID, ahead of inserting its fresh chunks.
func (s *SQLiteStore) deleteChunksForPath(ctx context.Context, tx *sql.Tx, codebaseID int64, path string) error {
	keys, err := queryChunkKeys(ctx, tx, `SELECT chunk_key FROM chunks WHERE codebase_id = ? AND file_path = ?`, codebaseID, path)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	fts := ftsTableName(codebaseID)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE chunk_key = ?`, fts), key); err != nil {
			return fmt.Errorf("store: delete fts row %q: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM chunk_vectors WHERE codebase_id = ? AND chunk_key = ?`, codebaseID, key,
		); err != nil {
			return fmt.Errorf("store: delete vector row %q: %w", key, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chunks WHERE codebase_id = ? AND file_path = ?`, codebaseID, path,
	); err != nil {
		return fmt.Errorf("store: delete chunks for %q: %w", path, err)
	}
	return nil
}

func queryChunkKeys(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query chunk keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("store: scan chunk key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RemoveStaleFiles deletes indexed_files, chunks, FTS, and vector rows for
// paths that the scanner no longer found on disk.
func (s *SQLiteStore) RemoveStaleFiles(ctx context.Context, codebaseID int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin remove stale files: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, path := range paths {
		if err := s.deleteChunksForPath(ctx, tx, codebaseID, path); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM indexed_files WHERE codebase_id = ? AND path = ?`, codebaseID, path,
		); err != nil {
			return fmt.Errorf("store: delete indexed_files for %q: %w", path, err)
		}
	}

	return tx.Commit()
}

// GetStaleEmbeddings returns every chunk that has no embedding yet, or was
// embedded under a different model than currentModel.
func (s *SQLiteStore) GetStaleEmbeddings(ctx context.Context, codebaseID int64, currentModel string) ([]*Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_key, file_path, language, kind, name, signature, snippet, start_line, end_line
		FROM chunks
		WHERE codebase_id = ? AND (has_embedding = 0 OR embedding_model != ?)
	`, codebaseID, currentModel)
	if err != nil {
		return nil, fmt.Errorf("store: get stale embeddings: %w", err)
	}
	defer rows.Close()

	var out []*Chunk
	for rows.Next() {
		c := &Chunk{CodebaseID: codebaseID}
		if err := rows.Scan(&c.Key, &c.FilePath, &c.Language, &c.Kind, &c.Name, &c.Signature, &c.Snippet, &c.StartLine, &c.EndLine); err != nil {
			return nil, fmt.Errorf("store: scan stale embedding row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BatchUpsertEmbeddings writes embedding vectors for chunks already present
// in the chunks table, marking them with model so future staleness checks
// can detect a model change.
func (s *SQLiteStore) BatchUpsertEmbeddings(ctx context.Context, codebaseID int64, chunks []*Chunk, model string) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin embedding upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range chunks {
		if len(c.Embedding) != vectorDimensions {
			return ErrDimensionMismatch{Expected: vectorDimensions, Got: len(c.Embedding)}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE chunks SET embedding_model = ?, has_embedding = 1 WHERE codebase_id = ? AND chunk_key = ?`,
			model, codebaseID, c.Key,
		); err != nil {
			return fmt.Errorf("store: mark chunk %q embedded: %w", c.Key, err)
		}

		quantized, err := sqlitevec.SerializeInt8(quantizeEmbedding(c.Embedding))
		if err != nil {
			return fmt.Errorf("store: serialize embedding for %q: %w", c.Key, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM chunk_vectors WHERE codebase_id = ? AND chunk_key = ?`, codebaseID, c.Key,
		); err != nil {
			return fmt.Errorf("store: clear old vector for %q: %w", c.Key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_vectors (codebase_id, chunk_key, embedding) VALUES (?, ?, ?)`,
			codebaseID, c.Key, quantized,
		); err != nil {
			return fmt.Errorf("store: insert vector for %q: %w", c.Key, err)
		}
	}

	return tx.Commit()
}

// quantizeEmbedding maps a unit-normalized float32 vector onto the int8
// range the shared vec0 column stores, per spec's 8-bit quantization.
func quantizeEmbedding(v []float32) []int8 {
	out := make([]int8, len(v))
	for i, f := range v {
		scaled := f * 127
		switch {
		case scaled > 127:
			scaled = 127
		case scaled < -128:
			scaled = -128
		}
		out[i] = int8(scaled)
	}
	return out
}

// RebuildFTSTable repopulates a codebase's FTS table from its chunks rows.
// Used after a change large enough that incremental FTS upserts would
// leave BM25 statistics skewed (e.g. restoring from stale-embedding repair).
func (s *SQLiteStore) RebuildFTSTable(ctx context.Context, codebaseID int64) error {
	fts := ftsTableName(codebaseID)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin fts rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, fts)); err != nil {
		return fmt.Errorf("store: clear fts table: %w", err)
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (chunk_key, name, signature, snippet)
		SELECT chunk_key, name, signature, snippet FROM chunks WHERE codebase_id = ?
	`, fts), codebaseID)
	if err != nil {
		return fmt.Errorf("store: repopulate fts table: %w", err)
	}

	return tx.Commit()
}

// TextSearch runs a BM25-ranked query against one codebase's FTS table,
// weighting the name and signature columns above the snippet body.
func (s *SQLiteStore) TextSearch(ctx context.Context, codebaseID int64, query string, limit int) ([]*TextMatch, error) {
	fts := ftsTableName(codebaseID)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT chunk_key, bm25(%s, 0.0, 5.0, 3.0, 1.0) AS score
		FROM %s
		WHERE %s MATCH ?
		ORDER BY score
		LIMIT ?
	`, fts, fts, fts), query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: text search: %w", err)
	}
	defer rows.Close()

	var out []*TextMatch
	for rows.Next() {
		var m TextMatch
		if err := rows.Scan(&m.ChunkKey, &m.Score); err != nil {
			return nil, fmt.Errorf("store: scan text match: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// VectorSearch runs a cosine-distance nearest-neighbor query against the
// shared vector index. codebaseID == 0 searches across every codebase.
func (s *SQLiteStore) VectorSearch(ctx context.Context, codebaseID int64, embedding []float32, limit int) ([]*VectorMatch, error) {
	if len(embedding) != vectorDimensions {
		return nil, ErrDimensionMismatch{Expected: vectorDimensions, Got: len(embedding)}
	}
	queryVec, err := sqlitevec.SerializeInt8(quantizeEmbedding(embedding))
	if err != nil {
		return nil, fmt.Errorf("store: serialize query embedding: %w", err)
	}

	var rows *sql.Rows
	if codebaseID == 0 {
		rows, err = s.db.QueryContext(ctx, `
			SELECT codebase_id, chunk_key, distance
			FROM chunk_vectors
			WHERE embedding MATCH ? AND k = ?
			ORDER BY distance
		`, queryVec, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT codebase_id, chunk_key, distance
			FROM chunk_vectors
			WHERE codebase_id = ? AND embedding MATCH ? AND k = ?
			ORDER BY distance
		`, codebaseID, queryVec, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("store: vector search: %w", err)
	}
	defer rows.Close()

	var out []*VectorMatch
	for rows.Next() {
		var m VectorMatch
		if err := rows.Scan(&m.CodebaseID, &m.ChunkKey, &m.Distance); err != nil {
			return nil, fmt.Errorf("store: scan vector match: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// GetChunk fetches one chunk by key.
func (s *SQLiteStore) GetChunk(ctx context.Context, codebaseID int64, key string) (*Chunk, error) {
	chunks, err := s.GetChunks(ctx, codebaseID, []string{key})
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, sql.ErrNoRows
	}
	return chunks[0], nil
}

// GetChunks fetches multiple chunks by key in one query.
func (s *SQLiteStore) GetChunks(ctx context.Context, codebaseID int64, keys []string) ([]*Chunk, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	args = append(args, codebaseID)
	for i, k := range keys {
		placeholders[i] = "?"
		args = append(args, k)
	}

	query := fmt.Sprintf(`
		SELECT chunk_key, file_path, language, kind, name, signature, snippet, start_line, end_line, embedding_model, has_embedding
		FROM chunks
		WHERE codebase_id = ? AND chunk_key IN (%s)
	`, joinPlaceholders(placeholders))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: get chunks: %w", err)
	}
	defer rows.Close()

	var out []*Chunk
	for rows.Next() {
		c := &Chunk{CodebaseID: codebaseID}
		var hasEmb int
		if err := rows.Scan(&c.Key, &c.FilePath, &c.Language, &c.Kind, &c.Name, &c.Signature, &c.Snippet, &c.StartLine, &c.EndLine, &c.EmbeddingModel, &hasEmb); err != nil {
			return nil, fmt.Errorf("store: scan chunk row: %w", err)
		}
		c.HasEmbedding = hasEmb != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

func joinPlaceholders(ph []string) string {
	out := ph[0]
	for _, p := range ph[1:] {
		out += ", " + p
	}
	return out
}

// CountEmbeddedChunks reports how many of a codebase's chunks carry an
// up-to-date embedding, for progress reporting and health checks.
func (s *SQLiteStore) CountEmbeddedChunks(ctx context.Context, codebaseID int64) (total, embedded int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(has_embedding), 0)
		FROM chunks WHERE codebase_id = ?
	`, codebaseID)
	if err := row.Scan(&total, &embedded); err != nil {
		return 0, 0, fmt.Errorf("store: count embedded chunks: %w", err)
	}
	return total, embedded, nil
}

// TotalIndexedChunkCount sums indexed_files.chunk_count across every
// codebase.
func (s *SQLiteStore) TotalIndexedChunkCount(ctx context.Context) (int, error) {
	var total int
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(chunk_count), 0) FROM indexed_files`)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("store: total indexed chunk count: %w", err)
	}
	return total, nil
}

// TouchCodebase advances a codebase's updated_at to now, marking the end of
// a successful index run.
func (s *SQLiteStore) TouchCodebase(ctx context.Context, codebaseID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE codebases SET updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), codebaseID,
	)
	if err != nil {
		return fmt.Errorf("store: touch codebase %d: %w", codebaseID, err)
	}
	return nil
}

// Healthy reports ErrUnsearchable if the core tables or the shared vector
// index are missing, which happens when a database file predates this
// schema or sqlite-vec failed to load for the current process.
func (s *SQLiteStore) Healthy(ctx context.Context) error {
	for _, table := range []string{"codebases", "chunks", "indexed_files"} {
		var name string
		err := s.db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return ErrUnsearchable{Reason: fmt.Sprintf("missing table %q", table)}
		}
		if err != nil {
			return fmt.Errorf("store: health check: %w", err)
		}
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE name = 'chunk_vectors'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return ErrUnsearchable{Reason: "vector index chunk_vectors is missing (sqlite-vec may have failed to load)"}
	}
	if err != nil {
		return fmt.Errorf("store: health check: %w", err)
	}
	return nil
}
