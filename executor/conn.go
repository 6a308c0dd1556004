package executor

import (
	"context"
	"iter"
	"sync"

	"github.com/pgschema/sqltables/internal/logger"
)

// source runs one statement on an already held connection.
type source interface {
	stream(ctx context.Context, sql string, args []any, yield func(Row, error) bool)
}

// Conn is a single connection pinned until Release. Statements issued
// through it share a session, so BEGIN, the statements of a transaction and
// COMMIT all reach the same backend.
type Conn struct {
	src     source
	release func()
	once    sync.Once
}

// Query implements Querier on the pinned connection.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		logger.Statement(ctx, sql, args)
		c.src.stream(ctx, sql, args, yield)
	}
}

// Release returns the connection to its pool. It is safe to call more than
// once.
func (c *Conn) Release() {
	c.once.Do(c.release)
}

// queryOnce acquires a connection, streams one statement and releases the
// connection however the stream ends.
func queryOnce(ctx context.Context, acquire func(context.Context) (*Conn, error), sql string, args []any) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		conn, err := acquire(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		defer conn.Release()

		logger.Statement(ctx, sql, args)
		conn.src.stream(ctx, sql, args, yield)
	}
}
