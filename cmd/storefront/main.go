package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/freshstart/storefront/internal/config"
	"github.com/freshstart/storefront/internal/identity"
	"github.com/freshstart/storefront/internal/images"
	"github.com/freshstart/storefront/internal/logging"
	"github.com/freshstart/storefront/internal/menu"
	"github.com/freshstart/storefront/internal/objstore"
	"github.com/freshstart/storefront/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadFromEnv("FS_", config.Default())

	logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	store, storeBackend, closeStore := menu.Open(context.Background(), cfg, logging.ForComponent(logger, "menu"))
	defer closeStore()

	provider, identityBackend := identity.Open(cfg, logging.ForComponent(logger, "identity"))

	var storage *objstore.Client
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		storage = objstore.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
	} else {
		logger.Warn("object storage not configured, uploads disabled")
	}

	var ingestStorage images.Storage
	if storage != nil {
		ingestStorage = storage
	}

	logger.Info("storefront starting",
		slog.String("store", storeBackend),
		slog.String("identity", identityBackend),
		slog.Bool("storage", storage != nil),
	)

	_, app := web.NewServer(web.Options{
		Config:       cfg,
		Store:        store,
		StoreBackend: storeBackend,
		Provider:     provider,
		Ingestor:     images.NewIngestor(ingestStorage),
		Storage:      storage,
		Logger:       logger,
	})

	if err := app.RunWithSignals(); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
