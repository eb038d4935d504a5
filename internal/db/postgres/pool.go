package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/kereso/internal/db"
)

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// Config holds connection parameters for the corpus database.
type Config struct {
	DSN      string
	MaxConns int32
}

// Pool is a read-only handle on the site database.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool parses the DSN and opens a lazy connection pool.
func NewPool(ctx context.Context, cfg Config) (*Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Ping checks connectivity.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the pool.
func (p *Pool) Close() {
	p.pool.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (p *Pool) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Query runs a read query. Errors are wrapped in db.Error.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, WrapError(err)
	}
	return rows, nil
}

// WrapError maps driver errors onto db sentinels.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return &db.Error{Op: db.OpQuery, Err: fmt.Errorf("%w: %s", db.ErrTableNotFound, pgErr.Message)}
	}
	return &db.Error{Op: db.OpQuery, Err: err}
}
