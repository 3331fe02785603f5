// Package sqlite provides a SQLite-backed target store for local copies of
// the TCRD subset.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"tcrdcore/internal/entitymodel/sqlbundle"
	"tcrdcore/internal/infra/persistence/sqlstore"
)

const defaultPath = "tcrd.db"

// Store reads the TCRD tables from a single SQLite file.
type Store struct {
	*sqlstore.Store
	path string
}

// NewStore opens (creating when needed) the SQLite file at path and applies
// the embedded DDL. The special path ":memory:" keeps everything in process.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if err := sqlstore.ApplyDDL(ctx, db, sqlbundle.SplitStatements(sqlbundle.SQLite())); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite ddl: %w", err)
	}
	return &Store{Store: sqlstore.New(db, sqlstore.DialectSQLite), path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
