package executor

import (
	"context"
	"fmt"
	"iter"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgschema/sqltables/internal/logger"
)

// Pool is a pgx connection pool. Construct one at startup, pass it to the
// components that query, and Close it on shutdown.
type Pool struct {
	pool *pgxpool.Pool
}

var _ Acquirer = (*Pool)(nil)

// New creates a pool and verifies it can reach the server.
func New(ctx context.Context, config ConnectionConfig) (*Pool, error) {
	config = config.withDefaults()

	poolConfig, err := pgxpool.ParseConfig(config.BuildDSN())
	if err != nil {
		return nil, fmt.Errorf("invalid connection config: %w", err)
	}
	poolConfig.MaxConns = int32(config.MaxConns)
	poolConfig.MaxConnIdleTime = config.MaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = config.ConnectTimeout

	logger.Get().Debug("Creating connection pool",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database,
		"max_conns", config.MaxConns,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	p := &Pool{pool: pool}
	if err := p.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewFromPool wraps an existing pgx pool.
func NewFromPool(pool *pgxpool.Pool) *Pool {
	return &Pool{pool: pool}
}

// Ping checks that a connection can be acquired and used.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close waits for acquired connections to be released and closes the pool.
func (p *Pool) Close() {
	p.pool.Close()
}

// Stat reports pool usage.
func (p *Pool) Stat() *pgxpool.Stat {
	return p.pool.Stat()
}

// Acquire pins one connection until Release.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Conn{src: pgxSource{conn: c}, release: c.Release}, nil
}

// Query runs sql on a connection held only while the rows are read.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) iter.Seq2[Row, error] {
	return queryOnce(ctx, p.Acquire, sql, args)
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgxSource struct {
	conn pgxQuerier
}

func (s pgxSource) stream(ctx context.Context, sql string, args []any, yield func(Row, error) bool) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		logger.StatementFailed(ctx, sql, err)
		yield(nil, err)
		return
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			yield(nil, err)
			return
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		if !yield(row, nil) {
			return
		}
	}
	if err := rows.Err(); err != nil {
		logger.StatementFailed(ctx, sql, err)
		yield(nil, err)
	}
}
