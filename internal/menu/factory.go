package menu

import (
	"context"
	"log/slog"

	"github.com/freshstart/storefront/internal/config"
	"github.com/freshstart/storefront/internal/db"
)

// Backend names reported by Open.
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Open selects a store backend by capability probe: Postgres when
// DATABASE_URL is set and reachable, the JSON-file fallback otherwise.
// The fallback decision is never an error for the caller; the probe
// outcome is logged for operability.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, string, func()) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.DatabaseURL == "" {
		logger.Info("menu store using file backend", slog.String("reason", "DATABASE_URL not set"))
		return NewFileStore(cfg.DataFile, logger), BackendFile, func() {}
	}

	pool, err := db.Open(cfg.DatabaseURL, db.Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 0,
		ConnMaxIdleTime: 0,
	})
	if err != nil {
		logger.Warn("menu store falling back to file backend",
			slog.String("reason", "database unreachable"),
			slog.String("error", err.Error()),
		)
		return NewFileStore(cfg.DataFile, logger), BackendFile, func() {}
	}

	store := NewPGStore(pool)
	if err := store.Migrate(ctx); err != nil {
		logger.Warn("menu store falling back to file backend",
			slog.String("reason", "migration failed"),
			slog.String("error", err.Error()),
		)
		_ = pool.Close()
		return NewFileStore(cfg.DataFile, logger), BackendFile, func() {}
	}

	logger.Info("menu store using postgres backend")
	return store, BackendPostgres, func() { _ = pool.Close() }
}
