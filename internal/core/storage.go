package core

import (
	"context"
	"os"
	"strings"

	"tcrdcore/internal/errors"
	"tcrdcore/internal/infra/persistence/memory"
	"tcrdcore/internal/infra/persistence/postgres"
	"tcrdcore/internal/infra/persistence/sqlite"
	"tcrdcore/pkg/domain"
)

// StorageDriver identifies a concrete target store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory, optionally loaded from a YAML fixture
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server (TCRD proper)
)

// StorageConfig selects and configures the target store.
type StorageConfig struct {
	Driver           string `mapstructure:"driver"`
	SQLitePath       string `mapstructure:"sqlite_path"`
	PostgresDSN      string `mapstructure:"postgres_dsn"`
	PostgresApplyDDL bool   `mapstructure:"postgres_apply_ddl"`
	Fixture          string `mapstructure:"fixture"`
}

// OpenStore selects a backend from cfg. An empty driver means sqlite. The
// caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg StorageConfig) (domain.Store, error) {
	driver := StorageDriver(strings.ToLower(strings.TrimSpace(cfg.Driver)))
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return openMemory(cfg.Fixture)
	case StorageSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN, postgres.Options{ApplyDDL: cfg.PostgresApplyDDL})
	default:
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownDriver, "storage driver %q", driver),
			"use one of memory, sqlite, postgres")
	}
}

func openMemory(fixture string) (domain.Store, error) {
	if fixture == "" {
		return memory.NewStore(), nil
	}
	snap, err := ReadFixture(fixture)
	if err != nil {
		return nil, err
	}
	return memory.NewStoreFromSnapshot(snap)
}

// ReadFixture decodes the YAML snapshot at path.
func ReadFixture(path string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, errors.MarkIO(err, "open fixture")
	}
	defer func() { _ = f.Close() }()
	return memory.LoadFixture(f)
}

// Seed loads snapshot into store when the backend supports it.
func Seed(ctx context.Context, store domain.Store, snapshot domain.Snapshot) error {
	seeder, ok := store.(domain.Seeder)
	if !ok {
		return errors.Newf("store %T cannot be seeded", store)
	}
	return seeder.Seed(ctx, snapshot)
}
