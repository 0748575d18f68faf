package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Simplici0/printquote/internal/quote"
)

const (
	defaultAppEnv      = "development"
	defaultPort        = "8080"
	defaultAppName     = "PrintQuote Pro"
	defaultAppURL      = "http://localhost:8080"
	defaultDBPath      = "./dev.db"
	defaultMaxConns    = 10
	defaultDialTimeout = 5 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	AppName        string
	AppURL         string
	Store          quote.Backend
	DBPath         string
	DatabaseURL    string
	DBMaxConns     int32
	DBDialTimeout  time.Duration
	LogLevel       slog.Level
	SeedSampleData bool
	EnableInsights bool
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: a missing .env is fine, production injects real env vars.
	_, _ = loadDotEnv(".env")

	cfg := Config{
		AppEnv:         envOr("APP_ENV", defaultAppEnv),
		Port:           envOr("PORT", defaultPort),
		AppName:        envOr("APP_NAME", defaultAppName),
		AppURL:         strings.TrimRight(envOr("APP_URL", defaultAppURL), "/"),
		Store:          quote.Backend(strings.ToLower(envOr("QUOTE_STORE", string(quote.BackendMemory)))),
		DBPath:         envOr("DB_PATH", defaultDBPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     defaultMaxConns,
		DBDialTimeout:  defaultDialTimeout,
		LogLevel:       slog.LevelInfo,
		EnableInsights: true,
	}
	cfg.SeedSampleData = cfg.IsDev()

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			slog.Warn("config.invalid_value", "key", "DB_MAX_CONNS", "value", v)
		} else {
			cfg.DBMaxConns = int32(n)
		}
	}
	if v := os.Getenv("DB_DIAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("config.invalid_value", "key", "DB_DIAL_TIMEOUT", "value", v)
		} else {
			cfg.DBDialTimeout = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("config.invalid_value", "key", "LOG_LEVEL", "value", v)
			cfg.LogLevel = slog.LevelInfo
		}
	}
	cfg.SeedSampleData = envBool("SEED_SAMPLE_DATA", cfg.SeedSampleData)
	cfg.EnableInsights = envBool("ENABLE_INSIGHTS", cfg.EnableInsights)

	if os.Getenv("APP_URL") == "" && !cfg.IsDev() {
		slog.Warn("config.missing", "key", "APP_URL", "default", defaultAppURL)
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}

// Validate checks that the selected store is usable.
func (c Config) Validate() error {
	switch c.Store {
	case quote.BackendMemory:
	case quote.BackendSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite store")
		}
	case quote.BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown QUOTE_STORE %q", c.Store)
	}
	return nil
}

// StoreConfig returns the settings quote.OpenStore needs.
func (c Config) StoreConfig() quote.StoreConfig {
	return quote.StoreConfig{
		Backend:     c.Store,
		SQLitePath:  c.DBPath,
		PostgresDSN: c.DatabaseURL,
		MaxConns:    c.DBMaxConns,
		DialTimeout: c.DBDialTimeout,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config.invalid_value", "key", key, "value", v)
		return fallback
	}
	return b
}
