package quote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Simplici0/printquote/internal/db"
	"github.com/Simplici0/printquote/internal/migrations"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// StoreConfig selects and configures the storage backend.
type StoreConfig struct {
	Backend     Backend
	SQLitePath  string
	PostgresDSN string
	MaxConns    int32
	DialTimeout time.Duration
}

// OpenStore constructs the configured backend, running migrations for the
// database-backed ones.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendMemory, "":
		logger.Info("store.opened", "backend", string(BackendMemory))
		return NewMemoryStore(), nil

	case BackendSQLite:
		database, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrations.Up(ctx, database, goose.DialectSQLite3, logger); err != nil {
			database.Close()
			return nil, err
		}
		store := NewSQLStore(database)
		n, err := store.backfillSearchNames(ctx)
		if err != nil {
			database.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("store.search_names_backfilled", "rows", n)
		}
		logger.Info("store.opened", "backend", string(BackendSQLite), "path", cfg.SQLitePath)
		return store, nil

	case BackendPostgres:
		pool, err := db.OpenPostgres(ctx, db.PostgresConfig{
			DSN:         cfg.PostgresDSN,
			MaxConns:    cfg.MaxConns,
			DialTimeout: cfg.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		err = migrations.Up(ctx, sqlDB, goose.DialectPostgres, logger)
		_ = sqlDB.Close()
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("store.opened", "backend", string(BackendPostgres))
		return NewPGStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
