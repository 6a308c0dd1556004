package crud

import (
	"context"
	"fmt"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/sqlgen"
)

// Begin starts a transaction at level, SERIALIZABLE when empty. The store
// must run on a pinned connection (see Transaction and executor.Conn) for
// the following statements to be part of it.
func (s *Store) Begin(ctx context.Context, level sqlgen.IsolationLevel) error {
	stmt, err := sqlgen.Begin(level)
	if err != nil {
		return err
	}
	if err := executor.Exec(ctx, s.querier, stmt); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	return nil
}

// Commit ends the current transaction.
func (s *Store) Commit(ctx context.Context) error {
	if err := executor.Exec(ctx, s.querier, sqlgen.Commit()); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback aborts the current transaction. cause is only logged.
func (s *Store) Rollback(ctx context.Context, cause error) error {
	logger.Get().Debug("Transaction Rollback", "cause", cause)
	if err := executor.Exec(ctx, s.querier, sqlgen.Rollback()); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Transaction runs fn inside a transaction on one connection. fn receives a
// store bound to that connection. The transaction commits when fn returns
// nil and rolls back otherwise. Transactions do not nest and are not
// retried.
func (s *Store) Transaction(ctx context.Context, level sqlgen.IsolationLevel, fn func(*Store) error) (err error) {
	tx := s
	if acquirer, ok := s.querier.(executor.Acquirer); ok {
		conn, err := acquirer.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()
		tx = s.On(conn)
	}

	if err := tx.Begin(ctx, level); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx, fmt.Errorf("panic: %v", p))
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx, err); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
