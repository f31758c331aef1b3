// Package web wires the HTTP surface: the public storefront pages, the
// admin area, and the JSON API, all behind the request gate.
package web

import (
	"log/slog"

	"github.com/freshstart/storefront/internal/config"
	"github.com/freshstart/storefront/internal/httpx"
	"github.com/freshstart/storefront/internal/identity"
	"github.com/freshstart/storefront/internal/images"
	"github.com/freshstart/storefront/internal/menu"
	"github.com/freshstart/storefront/internal/objstore"
)

// Server owns the handlers and their dependencies.
type Server struct {
	config       config.Config
	store        menu.Store
	cached       *menu.ReadCache
	storeBackend string
	provider     identity.Provider
	ingestor     *images.Ingestor
	storage      *objstore.Client
	logger       *slog.Logger
}

// Options collects the dependencies for a Server.
type Options struct {
	Config       config.Config
	Store        menu.Store
	Cached       *menu.ReadCache
	StoreBackend string
	Provider     identity.Provider
	Ingestor     *images.Ingestor
	Storage      *objstore.Client
	Logger       *slog.Logger
}

// NewServer constructs the server and registers all routes on a fresh app.
func NewServer(options Options) (*Server, *httpx.App) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		config:       options.Config,
		store:        options.Store,
		cached:       options.Cached,
		storeBackend: options.StoreBackend,
		provider:     options.Provider,
		ingestor:     options.Ingestor,
		storage:      options.Storage,
		logger:       logger,
	}
	if server.cached == nil {
		server.cached = menu.NewReadCache(options.Store, nil, options.Config.CacheTTL, logger)
	}
	if server.ingestor == nil {
		server.ingestor = images.NewIngestor(nil)
	}

	app := httpx.New(options.Config, httpx.WithLogger(logger))
	app.Use(httpx.RequestID(), httpx.Recover(), httpx.Logger(), httpx.Trace("storefront"), Gate(server.provider))
	server.Routes(app)
	return server, app
}

// Routes registers every route on the app. The gate runs as global
// middleware, so protected and public routes register identically.
func (s *Server) Routes(app *httpx.App) {
	app.GET("/api/menu-items", s.listMenuItems)
	app.POST("/api/menu-items", s.createMenuItem)
	app.POST("/api/menu-items/bulk", s.createMenuItemsBulk)
	app.PUT("/api/menu-items", s.updateMenuItem)
	app.DELETE("/api/menu-items", s.deleteMenuItems)

	app.POST("/api/uploads", s.uploadImage)
	app.GET("/api/images", s.proxyImage)

	app.POST("/api/auth/login", s.login)
	app.POST("/api/auth/logout", s.logout)

	app.GET("/healthz", s.health)

	app.GET("/{$}", s.homePage)
	app.GET("/menu/{section}", s.sectionPage)
	app.GET("/admin/login", s.loginPage)
	app.GET("/ekle", s.adminPage)

	app.Static("/public", s.config.PublicDir, "public, max-age=86400")
}
