package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv applies environment overrides with a prefix (e.g. FS_).
// Supabase and admin credential variables are read unprefixed because they
// are shared with the deployment platform's conventions.
func LoadFromEnv(prefix string, base Config) Config {
	get := func(key string) string { return os.Getenv(prefix + key) }

	if value := get("ADDRESS"); value != "" {
		base.Address = value
	}
	if value := get("READ_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.ReadTimeout = d
		}
	}
	if value := get("WRITE_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.WriteTimeout = d
		}
	}
	if value := get("IDLE_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.IdleTimeout = d
		}
	}
	if value := get("READ_HEADER_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.ReadHeaderTimeout = d
		}
	}
	if value := get("SHUTDOWN_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.ShutdownTimeout = d
		}
	}
	if value := get("MAX_HEADER_BYTES"); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			base.MaxHeaderBytes = n
		}
	}
	if value := get("LOG_LEVEL"); value != "" {
		base.LogLevel = value
	}
	if value := get("LOG_FORMAT"); value != "" {
		base.LogFormat = value
	}
	if value := get("DATA_FILE"); value != "" {
		base.DataFile = value
	}
	if value := get("CACHE_TTL"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			base.CacheTTL = d
		}
	}
	if value := get("SECURE_COOKIES"); value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			base.SecureCookies = enabled
		}
	}
	if value := get("PUBLIC_DIR"); value != "" {
		base.PublicDir = value
	}

	if value := os.Getenv("DATABASE_URL"); value != "" {
		base.DatabaseURL = value
	}
	if value := os.Getenv("SUPABASE_URL"); value != "" {
		base.SupabaseURL = value
	}
	if value := os.Getenv("SUPABASE_ANON_KEY"); value != "" {
		base.SupabaseAnonKey = value
	}
	if value := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); value != "" {
		base.SupabaseServiceKey = value
	}
	if value := os.Getenv("SUPABASE_STORAGE_BUCKET"); value != "" {
		base.StorageBucket = value
	}
	if value := os.Getenv("ADMIN_EMAIL"); value != "" {
		base.AdminEmail = value
	}
	if value := os.Getenv("ADMIN_PASSWORD_BCRYPT"); value != "" {
		base.AdminPasswordHash = value
	}

	return base
}
