package store

import (
	"database/sql"
	"fmt"
)

// createCodebasesTable holds one row per indexed project root.
const createCodebasesTable = `
CREATE TABLE IF NOT EXISTS codebases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	root_path   TEXT NOT NULL UNIQUE,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
)
`

const createIndexedFilesTable = `
CREATE TABLE IF NOT EXISTS indexed_files (
	codebase_id  INTEGER NOT NULL,
	path         TEXT NOT NULL,
	content_sha  TEXT NOT NULL,
	size_bytes   INTEGER NOT NULL,
	mod_time     TEXT NOT NULL,
	indexed_at   TEXT NOT NULL,
	chunk_count  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (codebase_id, path),
	FOREIGN KEY (codebase_id) REFERENCES codebases(id) ON DELETE CASCADE
)
`

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
	codebase_id      INTEGER NOT NULL,
	chunk_key        TEXT NOT NULL,
	file_path        TEXT NOT NULL,
	language         TEXT NOT NULL,
	kind             TEXT NOT NULL,
	name             TEXT NOT NULL,
	signature        TEXT NOT NULL,
	snippet          TEXT NOT NULL,
	start_line       INTEGER NOT NULL,
	end_line         INTEGER NOT NULL,
	embedding_model  TEXT NOT NULL DEFAULT '',
	has_embedding    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (codebase_id, chunk_key),
	FOREIGN KEY (codebase_id) REFERENCES codebases(id) ON DELETE CASCADE
)
`

const createChunksFilePathIndex = `
CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(codebase_id, file_path)
`

const createChunksEmbeddingIndex = `
CREATE INDEX IF NOT EXISTS idx_chunks_has_embedding ON chunks(codebase_id, has_embedding)
`

const createSchemaMetaTable = `
CREATE TABLE IF NOT EXISTS schema_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)
`

// vectorDimensions is the fixed embedding width for the shared vec0 table.
// Every codebase's chunks share this one vector index (spec's "single
// globally-searchable vector space"); only the per-codebase FTS tables are
// isolated.
const vectorDimensions = 384

// createVectorTable builds the vec0 virtual table holding every codebase's
// chunk embeddings, 8-bit quantized to keep the shared index compact.
// chunk_key alone is not unique across codebases, so codebase_id is the
// partition key and chunk_key a plain column; no primary key is declared,
// and every read, delete and insert addresses a row by the pair
// (codebase_id, chunk_key).
func createVectorTable(dimensions int) string {
	return fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS chunk_vectors USING vec0(
			codebase_id INTEGER PARTITION KEY,
			chunk_key   TEXT,
			embedding   int8[%d] distance_metric=cosine
		)
	`, dimensions)
}

// createSchema creates every core table, index, and the shared vector
// table. FTS tables are created per-codebase by ensureCodebaseFTSTable, not
// here, since each codebase gets its own isolated fts_{id} table.
func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		createCodebasesTable,
		createIndexedFilesTable,
		createChunksTable,
		createChunksFilePathIndex,
		createChunksEmbeddingIndex,
		createSchemaMetaTable,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("store: create schema: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO schema_meta (key, value) VALUES ('schema_version', ?)`,
		fmt.Sprintf("%d", CurrentSchemaVersion),
	); err != nil {
		return fmt.Errorf("store: bootstrap schema_meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit schema transaction: %w", err)
	}

	// vec0 virtual tables must be created outside a transaction.
	if _, err := db.Exec(createVectorTable(vectorDimensions)); err != nil {
		return fmt.Errorf("store: create vector index: %w", err)
	}

	return nil
}

// ftsTableName returns the per-codebase FTS5 table name. Table names can't
// be bound as query parameters, so callers must validate codebaseID is a
// real integer (it always is: it comes from AUTOINCREMENT) before
// interpolating it.
func ftsTableName(codebaseID int64) string {
	return fmt.Sprintf("fts_%d", codebaseID)
}

// ensureCodebaseFTSTable creates the codebase's isolated FTS5 table if it
// doesn't already exist. The table itself carries no column weights;
// TextSearch applies them at query time through bm25().
func ensureCodebaseFTSTable(db *sql.DB, codebaseID int64) error {
	stmt := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(
			chunk_key UNINDEXED,
			name,
			signature,
			snippet,
			tokenize = "unicode61 separators '._'"
		)
	`, ftsTableName(codebaseID))
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("store: create fts table for codebase %d: %w", codebaseID, err)
	}
	return nil
}
