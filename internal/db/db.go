package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Driver is the registered name of the pgx database/sql driver.
const Driver = "pgx"

// Options configures database connection pooling.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Open opens a Postgres pool, applies options, and verifies connectivity.
func Open(dsn string, options Options) (*sql.DB, error) {
	pool, err := sql.Open(Driver, dsn)
	if err != nil {
		return nil, err
	}

	if options.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(options.MaxOpenConns)
	}
	if options.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(options.MaxIdleConns)
	}
	if options.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(options.ConnMaxLifetime)
	}
	if options.ConnMaxIdleTime > 0 {
		pool.SetConnMaxIdleTime(options.ConnMaxIdleTime)
	}

	pingTimeout := options.PingTimeout
	if pingTimeout == 0 {
		pingTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return pool, nil
}

// Helper wraps query execution with a default per-call timeout.
type Helper struct {
	Timeout time.Duration
}

// Exec runs an exec statement with the helper timeout.
func (h Helper) Exec(ctx context.Context, pool *sql.DB, query string, args ...any) (sql.Result, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()
	return pool.ExecContext(ctx, query, args...)
}

// Query runs a query with the helper timeout. The cancel func must be
// deferred past row iteration; canceling earlier closes the rows.
func (h Helper) Query(ctx context.Context, pool *sql.DB, query string, args ...any) (*sql.Rows, context.CancelFunc, error) {
	ctx, cancel := h.withTimeout(ctx)
	rows, err := pool.QueryContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return rows, cancel, nil
}

// QueryRow runs a row query with the helper timeout. The cancel func must
// be deferred past row scanning.
func (h Helper) QueryRow(ctx context.Context, pool *sql.DB, query string, args ...any) (*sql.Row, context.CancelFunc) {
	ctx, cancel := h.withTimeout(ctx)
	return pool.QueryRowContext(ctx, query, args...), cancel
}

func (h Helper) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if h.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.Timeout)
}
