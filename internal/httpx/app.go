// Package httpx is the service's small HTTP kernel: handlers return
// errors, one central handler maps them to the error taxonomy, and
// middleware composes around both.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/freshstart/storefront/internal/apperr"
	"github.com/freshstart/storefront/internal/config"
	"github.com/freshstart/storefront/internal/logging"
)

// Handler handles a request and returns an error for centralized handling.
type Handler func(*Context) error

// Middleware wraps a handler with additional behavior.
type Middleware func(Handler) Handler

// ErrorHandler processes errors returned by handlers.
type ErrorHandler func(*Context, error)

// App routes requests and owns the HTTP server lifecycle.
type App struct {
	mux          *http.ServeMux
	middleware   []Middleware
	logger       *slog.Logger
	config       config.Config
	errorHandler ErrorHandler
}

// Option customizes the app instance.
type Option func(*App)

// New creates an App from config.
func New(cfg config.Config, options ...Option) *App {
	app := &App{
		mux:          http.NewServeMux(),
		config:       cfg,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range options {
		opt(app)
	}

	if app.logger == nil {
		app.logger = logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	}

	return app
}

// WithLogger uses a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(app *App) {
		app.logger = logger
	}
}

// WithErrorHandler overrides the default error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(app *App) {
		app.errorHandler = handler
	}
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Use registers global middleware, applied to every route in order.
func (a *App) Use(middleware ...Middleware) {
	a.middleware = append(a.middleware, middleware...)
}

// GET registers a GET route.
func (a *App) GET(pattern string, handler Handler, middleware ...Middleware) {
	a.Handle(http.MethodGet, pattern, handler, middleware...)
}

// POST registers a POST route.
func (a *App) POST(pattern string, handler Handler, middleware ...Middleware) {
	a.Handle(http.MethodPost, pattern, handler, middleware...)
}

// PUT registers a PUT route.
func (a *App) PUT(pattern string, handler Handler, middleware ...Middleware) {
	a.Handle(http.MethodPut, pattern, handler, middleware...)
}

// DELETE registers a DELETE route.
func (a *App) DELETE(pattern string, handler Handler, middleware ...Middleware) {
	a.Handle(http.MethodDelete, pattern, handler, middleware...)
}

// Handle registers a route. Patterns use ServeMux syntax; method is
// prepended, so "/api/menu-items" with MethodGet matches GET only.
func (a *App) Handle(method, pattern string, handler Handler, middleware ...Middleware) {
	h := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}

	a.mux.HandleFunc(method+" "+pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := NewContext(w, r, a.logger)

		final := h
		for i := len(a.middleware) - 1; i >= 0; i-- {
			final = a.middleware[i](final)
		}

		if err := final(ctx); err != nil {
			a.errorHandler(ctx, err)
		}
	})
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Run starts the server and shuts down when the context is canceled.
func (a *App) Run(ctx context.Context) error {
	server := a.newServer()
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("server starting", slog.String("address", a.config.Address))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RunWithSignals starts the server and handles SIGINT/SIGTERM for shutdown.
func (a *App) RunWithSignals() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

func defaultErrorHandler(ctx *Context, err error) {
	appErr := apperr.As(err)
	status := http.StatusInternalServerError
	code := apperr.CodeInternal
	message := "internal server error"

	if appErr != nil {
		status = appErr.Status
		code = appErr.Code
		message = appErr.Message
	}

	ctx.Logger().Error("request failed",
		slog.String("code", code),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	// Every failure crosses the boundary as {"error": "..."} with the
	// taxonomy status; nothing leaks unmapped.
	_ = ctx.JSON(status, map[string]string{"error": message})
}

func (a *App) newServer() *http.Server {
	return &http.Server{
		Addr:              a.config.Address,
		Handler:           a,
		ReadTimeout:       a.config.ReadTimeout,
		WriteTimeout:      a.config.WriteTimeout,
		IdleTimeout:       a.config.IdleTimeout,
		ReadHeaderTimeout: a.config.ReadHeaderTimeout,
		MaxHeaderBytes:    a.config.MaxHeaderBytes,
	}
}
