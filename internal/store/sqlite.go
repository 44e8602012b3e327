package store

import (
	"database/sql"
	"fmt"
	"sync"

	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// registerVectorExtension loads sqlite-vec into every connection mattn's
// driver opens from this process. It is idempotent and process-wide, so it
// is done once via sync.Once rather than per Open call.
var registerVectorExtension = sync.OnceFunc(sqlitevec.Auto)

// Open creates (or reuses) the SQLite database at path, applies pragmas
// suited to a single-writer/many-reader workload, and ensures the core
// schema exists.
func Open(path string) (*SQLiteStore, error) {
	registerVectorExtension()

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite serializes writers internally; a single open connection keeps
	// write transactions from interleaving on the Go side too.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// SQLiteStore is the default Store implementation, backed by a single
// SQLite database file holding both the FTS5 keyword index and the
// sqlite-vec vector index.
type SQLiteStore struct {
	db *sql.DB
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
