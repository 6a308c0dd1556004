package crud

import (
	"context"
	"fmt"
	"iter"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/sqlgen"
)

func (s *Store) run(ctx context.Context, op, table, query string, args []any) ([]executor.Row, error) {
	rows, err := executor.Collect(s.querier.Query(ctx, query, args...))
	if err != nil {
		return rows, fmt.Errorf("%s %s: %w", op, table, err)
	}
	return rows, nil
}

// Insert writes one or more rows. vals holds len(cols) values per row.
func (s *Store) Insert(ctx context.Context, table string, cols []string, vals []any) ([]executor.Row, error) {
	name, def, err := s.table("insert", table)
	if err != nil {
		return nil, err
	}
	in := input{op: "insert", table: name, def: def}
	cols, args, err := s.writable(in, cols, vals, true)
	if err != nil {
		return nil, err
	}
	query, err := sqlgen.Insert(name, cols, len(args))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", name, err)
	}
	return s.run(ctx, "insert", name, query, args)
}

// InsertRecord writes the columns set in rec.
func (s *Store) InsertRecord(ctx context.Context, table string, rec Record) ([]executor.Row, error) {
	cols, vals := rec.Split()
	return s.Insert(ctx, table, cols, vals)
}

// Update sets cols to vals on the rows whose idCols equal idVals.
func (s *Store) Update(ctx context.Context, table string, cols []string, vals []any, idCols []string, idVals []any) ([]executor.Row, error) {
	name, def, err := s.table("update", table)
	if err != nil {
		return nil, err
	}
	in := input{op: "update", table: name, def: def}
	cols, args, err := s.writable(in, cols, vals, false)
	if err != nil {
		return nil, err
	}
	idCols, ids, err := s.predicate(in, idCols, idVals)
	if err != nil {
		return nil, err
	}
	query, err := sqlgen.Update(name, cols, idCols)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", name, err)
	}
	return s.run(ctx, "update", name, query, append(args, ids...))
}

// UpdateRecord sets the columns of rec on the rows whose idCols equal idVals.
func (s *Store) UpdateRecord(ctx context.Context, table string, idCols []string, idVals []any, rec Record) ([]executor.Row, error) {
	cols, vals := rec.Split()
	return s.Update(ctx, table, cols, vals, idCols, idVals)
}

// Delete removes the rows whose idCols equal idVals.
func (s *Store) Delete(ctx context.Context, table string, idCols []string, idVals []any) ([]executor.Row, error) {
	name, def, err := s.table("delete", table)
	if err != nil {
		return nil, err
	}
	idCols, ids, err := s.predicate(input{op: "delete", table: name, def: def}, idCols, idVals)
	if err != nil {
		return nil, err
	}
	query, err := sqlgen.Delete(name, idCols)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", name, err)
	}
	return s.run(ctx, "delete", name, query, ids)
}

// Select streams every row of table, restricted to cols when given.
func (s *Store) Select(ctx context.Context, table string, cols ...string) iter.Seq2[executor.Row, error] {
	name, def, err := s.table("select", table)
	if err != nil {
		return executor.Fail(err)
	}
	if len(cols) > 0 {
		cols, _, err = input{op: "select", table: name, def: def}.resolve(cols)
		if err != nil {
			return executor.Fail(err)
		}
	}
	return s.querier.Query(ctx, sqlgen.SelectAll(name, cols...))
}

// SelectWhere streams the rows whose cols equal vals.
func (s *Store) SelectWhere(ctx context.Context, table string, cols []string, vals []any) iter.Seq2[executor.Row, error] {
	name, def, err := s.table("selectWhere", table)
	if err != nil {
		return executor.Fail(err)
	}
	cols, args, err := s.predicate(input{op: "selectWhere", table: name, def: def}, cols, vals)
	if err != nil {
		return executor.Fail(err)
	}
	return s.querier.Query(ctx, sqlgen.SelectWhere(name, cols), args...)
}

// SelectWhereAll is SelectWhere collected into a slice.
func (s *Store) SelectWhereAll(ctx context.Context, table string, cols []string, vals []any) ([]executor.Row, error) {
	return executor.Collect(s.SelectWhere(ctx, table, cols, vals))
}
