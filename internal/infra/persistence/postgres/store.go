// Package postgres provides a Postgres-backed target store reading a TCRD
// database (or a seeded copy of its subset) through the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"tcrdcore/internal/entitymodel/sqlbundle"
	"tcrdcore/internal/infra/persistence/sqlstore"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/tcrd?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Options tune NewStore.
type Options struct {
	// ApplyDDL creates the subset tables when missing. Leave off against a
	// production TCRD whose schema is owned elsewhere.
	ApplyDDL bool
}

// Store reads the TCRD tables from Postgres.
type Store struct {
	*sqlstore.Store
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to defaultDSN)
// and verifies connectivity.
func NewStore(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if opts.ApplyDDL {
		if err := sqlstore.ApplyDDL(ctx, db, sqlbundle.SplitStatements(sqlbundle.Postgres())); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply postgres ddl: %w", err)
		}
	}
	return &Store{Store: sqlstore.New(db, sqlstore.DialectPostgres)}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
