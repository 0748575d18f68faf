package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printquote/internal/db"
	"github.com/Simplici0/printquote/internal/migrations"
)

func TestUpSQLite(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "migrate-test.db"))
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	require.NoError(t, migrations.Up(ctx, database, goose.DialectSQLite3, nil))
	// A second run has nothing pending.
	require.NoError(t, migrations.Up(ctx, database, goose.DialectSQLite3, nil))

	for _, table := range []string{"quotes", "filament_presets"} {
		var name string
		err := database.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var column string
	err = database.QueryRowContext(ctx,
		`SELECT name FROM pragma_table_info('quotes') WHERE name = 'search_name'`,
	).Scan(&column)
	require.NoError(t, err)
	assert.Equal(t, "search_name", column)
}

func TestUpRejectsUnknownDialect(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	err = migrations.Up(context.Background(), database, goose.DialectMySQL, nil)
	assert.Error(t, err)
}
