// Package executor runs parameterized queries against PostgreSQL and streams
// the resulting rows.
//
// Every query holds one connection for its duration. The connection is
// returned to its pool on every exit path: normal end, error, context
// cancellation, or the consumer stopping a range loop early.
package executor

import (
	"context"
	"iter"
)

// Row maps column names to driver values.
type Row map[string]any

// Querier is the execution primitive. The returned sequence yields rows in
// server order and at most one error, after which it stops. The query runs
// when the sequence is ranged over.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) iter.Seq2[Row, error]
}

// Acquirer hands out connections pinned for several statements, as needed
// for transactions.
type Acquirer interface {
	Querier
	Acquire(ctx context.Context) (*Conn, error)
}

// Fail returns a sequence that yields err and stops.
func Fail(err error) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		yield(nil, err)
	}
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq2[Row, error]) ([]Row, error) {
	var rows []Row
	for row, err := range seq {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// First returns the first row of seq and stops the query.
func First(seq iter.Seq2[Row, error]) (Row, bool, error) {
	for row, err := range seq {
		if err != nil {
			return nil, false, err
		}
		return row, true, nil
	}
	return nil, false, nil
}

// Drain runs seq to completion, discarding rows.
func Drain(seq iter.Seq2[Row, error]) error {
	for _, err := range seq {
		if err != nil {
			return err
		}
	}
	return nil
}

// Exec runs a statement whose rows are not needed.
func Exec(ctx context.Context, q Querier, sql string, args ...any) error {
	return Drain(q.Query(ctx, sql, args...))
}
