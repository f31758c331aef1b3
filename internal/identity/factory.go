package identity

import (
	"log/slog"
	"time"

	"github.com/freshstart/storefront/internal/config"
)

// Provider backend names reported by Open.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
	BackendNone   = "none"
)

// Open selects an identity backend by capability probe, mirroring the
// menu store's factory: the remote provider when its configuration is
// present, the local bcrypt credential otherwise. A nil provider means
// protected routes will report the auth backend as unavailable.
func Open(cfg config.Config, logger *slog.Logger) (Provider, string) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		logger.Info("identity using remote provider")
		return NewRemoteProvider(cfg.SupabaseURL, cfg.SupabaseAnonKey), BackendRemote
	}

	if cfg.AdminEmail != "" && cfg.AdminPasswordHash != "" {
		logger.Info("identity using local fallback provider",
			slog.String("reason", "remote provider not configured"))
		return NewLocalProvider(cfg.AdminEmail, cfg.AdminPasswordHash, time.Hour), BackendLocal
	}

	logger.Warn("no identity backend configured; admin routes disabled")
	return nil, BackendNone
}
