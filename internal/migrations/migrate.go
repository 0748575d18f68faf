package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// Up runs all pending migrations for dialect (goose.DialectSQLite3 or
// goose.DialectPostgres) against db.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := dirFor(dialect)
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("migration.applied",
			"dialect", string(dialect),
			"source", r.Source.Path,
			"elapsed_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}

func dirFor(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectSQLite3:
		return "sqlite", nil
	case goose.DialectPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}
