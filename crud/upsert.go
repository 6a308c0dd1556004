package crud

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pgschema/sqltables/executor"
)

// IDColumn is the column read from a resolved dependency row.
const IDColumn = "id"

func pick[T any](items []T, indexes []int) ([]T, error) {
	out := make([]T, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(items) {
			return nil, fmt.Errorf("key index %d out of range", i)
		}
		out = append(out, items[i])
	}
	return out, nil
}

// InsertOrSelectIfExists returns the row whose key columns, picked from cols
// by keyIndexes, equal the given values, inserting the full row first if
// none exists. The select and insert are separate statements: concurrent
// callers can race between them, so the key columns should carry a unique
// constraint and callers that need atomicity should run this inside a
// transaction.
func (s *Store) InsertOrSelectIfExists(ctx context.Context, table string, cols []string, vals []any, keyIndexes ...int) (executor.Row, error) {
	if len(cols) != len(vals) {
		return nil, fmt.Errorf("insertOrSelect %s: %w", table, ErrColumnValueMismatch)
	}
	keyCols, err := pick(cols, keyIndexes)
	if err != nil {
		return nil, fmt.Errorf("insertOrSelect %s: %w", table, err)
	}
	keyVals, _ := pick(vals, keyIndexes)

	row, found, err := executor.First(s.SelectWhere(ctx, table, keyCols, keyVals))
	if err != nil {
		return nil, err
	}
	if found {
		return row, nil
	}

	if _, err := s.Insert(ctx, table, cols, vals); err != nil {
		return nil, err
	}

	row, found, err = executor.First(s.SelectWhere(ctx, table, keyCols, keyVals))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("insertOrSelect %s: %w", table, ErrInsertOrSelectFailed)
	}
	return row, nil
}

// Dependency resolves the row a foreign key column points at.
type Dependency struct {
	// Column is the foreign key column of the parent row.
	Column string
	// IDColumn is read from the resolved row; IDColumn ("id") when empty.
	IDColumn string
	Resolve  func(ctx context.Context) (executor.Row, error)
}

// Dependency returns a Dependency that runs InsertOrSelectIfExists on the
// referenced table.
func (s *Store) Dependency(column, table string, cols []string, vals []any, keyIndexes ...int) Dependency {
	return Dependency{
		Column: column,
		Resolve: func(ctx context.Context) (executor.Row, error) {
			return s.InsertOrSelectIfExists(ctx, table, cols, vals, keyIndexes...)
		},
	}
}

// CompoundInsertOrSelectIfExists resolves deps to ids, appends them to cols
// and vals as their foreign key columns and then runs
// InsertOrSelectIfExists on table. The whole operation fails if any
// dependency does not resolve to a row with an id.
func (s *Store) CompoundInsertOrSelectIfExists(ctx context.Context, table string, cols []string, vals []any, deps []Dependency, keyIndexes ...int) (executor.Row, error) {
	ids := make([]any, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	if _, pinned := s.querier.(*executor.Conn); pinned {
		// a pinned connection runs one statement at a time
		g.SetLimit(1)
	}
	for i, dep := range deps {
		g.Go(func() error {
			row, err := dep.Resolve(gctx)
			if err != nil {
				return fmt.Errorf("compoundInsertOrSelect %s: %w for %s: %w", table, ErrDependencyNotResolved, dep.Column, err)
			}
			idCol := dep.IDColumn
			if idCol == "" {
				idCol = IDColumn
			}
			id, ok := row[idCol]
			if !ok || id == nil {
				return fmt.Errorf("compoundInsertOrSelect %s: %w for %s", table, ErrDependencyNotResolved, dep.Column)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allCols := append([]string{}, cols...)
	for _, dep := range deps {
		allCols = append(allCols, dep.Column)
	}
	allVals := append(append([]any{}, vals...), ids...)
	return s.InsertOrSelectIfExists(ctx, table, allCols, allVals, keyIndexes...)
}
