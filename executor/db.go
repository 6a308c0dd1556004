package executor

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/pgschema/sqltables/internal/logger"
)

// DB runs queries through database/sql. It works with any driver that
// accepts $n placeholders, such as pgx's stdlib driver.
type DB struct {
	db *sql.DB
}

var _ Acquirer = (*DB)(nil)

// OpenDB wraps an open *sql.DB.
func OpenDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// SQL returns the underlying handle.
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Ping verifies the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Acquire pins one connection until Release.
func (d *DB) Acquire(ctx context.Context) (*Conn, error) {
	c, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Conn{
		src: sqlSource{conn: c},
		release: func() {
			if err := c.Close(); err != nil {
				logger.Get().Debug("failed to release connection", "error", err)
			}
		},
	}, nil
}

// Query runs sql on a connection held only while the rows are read.
func (d *DB) Query(ctx context.Context, sql string, args ...any) iter.Seq2[Row, error] {
	return queryOnce(ctx, d.Acquire, sql, args)
}

type sqlSource struct {
	conn *sql.Conn
}

func (s sqlSource) stream(ctx context.Context, query string, args []any, yield func(Row, error) bool) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		logger.StatementFailed(ctx, query, err)
		yield(nil, err)
		return
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		yield(nil, err)
		return
	}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			yield(nil, err)
			return
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		if !yield(row, nil) {
			return
		}
	}
	if err := rows.Err(); err != nil {
		logger.StatementFailed(ctx, query, err)
		yield(nil, err)
	}
}
