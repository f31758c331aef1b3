package config

import "time"

// Config holds service configuration.
//
// The admin email allow-list is deliberately absent: the authorization
// policy reads ADMIN_EMAILS from the environment on every check so
// operators can extend access without a restart.
type Config struct {
	Address           string        `json:"address"`
	ReadTimeout       time.Duration `json:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
	MaxHeaderBytes    int           `json:"max_header_bytes"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Remote menu-item store. Empty DatabaseURL selects the file backend.
	DatabaseURL string        `json:"database_url"`
	DataFile    string        `json:"data_file"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// Identity provider and object storage.
	SupabaseURL        string `json:"supabase_url"`
	SupabaseAnonKey    string `json:"-"`
	SupabaseServiceKey string `json:"-"`
	StorageBucket      string `json:"storage_bucket"`

	// Local fallback admin credential, used when the remote identity
	// provider is unconfigured.
	AdminEmail        string `json:"admin_email"`
	AdminPasswordHash string `json:"-"`

	SecureCookies bool   `json:"secure_cookies"`
	PublicDir     string `json:"public_dir"`
}

// Default returns safe defaults.
func Default() Config {
	return Config{
		Address:           ":8080",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		LogLevel:          "info",
		LogFormat:         "text",
		DataFile:          "data/menu-items.json",
		CacheTTL:          60 * time.Second,
		StorageBucket:     "menu-images",
		SecureCookies:     true,
		PublicDir:         "public",
	}
}
