package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printquote/internal/quote"
)

var configKeys = []string{
	"APP_ENV", "PORT", "APP_NAME", "APP_URL", "QUOTE_STORE", "DB_PATH", "DATABASE_URL",
	"DB_MAX_CONNS", "DB_DIAL_TIMEOUT", "LOG_LEVEL", "SEED_SAMPLE_DATA", "ENABLE_INSIGHTS",
}

// clearEnv runs the test from an empty directory so no .env leaks in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "PrintQuote Pro", cfg.AppName)
	assert.Equal(t, "http://localhost:8080", cfg.AppURL)
	assert.Equal(t, quote.BackendMemory, cfg.Store)
	assert.Equal(t, "./dev.db", cfg.DBPath)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBDialTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.SeedSampleData)
	assert.True(t, cfg.EnableInsights)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_URL", "https://quotes.example.com/")
	t.Setenv("QUOTE_STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/quotes")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_DIAL_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENABLE_INSIGHTS", "false")

	cfg := Load()

	assert.False(t, cfg.IsDev())
	assert.False(t, cfg.SeedSampleData)
	assert.False(t, cfg.EnableInsights)
	assert.Equal(t, "https://quotes.example.com", cfg.AppURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.NoError(t, cfg.Validate())

	sc := cfg.StoreConfig()
	assert.Equal(t, quote.BackendPostgres, sc.Backend)
	assert.Equal(t, "postgres://localhost/quotes", sc.PostgresDSN)
	assert.Equal(t, int32(4), sc.MaxConns)
	assert.Equal(t, 2*time.Second, sc.DialTimeout)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_CONNS", "-3")
	t.Setenv("DB_DIAL_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("SEED_SAMPLE_DATA", "maybe")

	cfg := Load()

	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBDialTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.SeedSampleData)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Store: quote.BackendMemory}},
		{name: "sqlite", cfg: Config{Store: quote.BackendSQLite, DBPath: "x.db"}},
		{name: "sqlite without path", cfg: Config{Store: quote.BackendSQLite}, wantErr: true},
		{name: "postgres without url", cfg: Config{Store: quote.BackendPostgres}, wantErr: true},
		{name: "unknown", cfg: Config{Store: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
