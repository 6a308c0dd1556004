package crud

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/sqlgen"
)

// Record is a partial row keyed by column name.
type Record map[string]any

// Split returns the columns of r in lexical order and their values.
func (r Record) Split() ([]string, []any) {
	cols := slices.Sorted(maps.Keys(r))
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = r[c]
	}
	return cols, vals
}

type input struct {
	op    string
	table string
	def   schema.Table
}

// resolve maps cols to their declared names and columns.
func (in input) resolve(cols []string) ([]string, []schema.Column, error) {
	names := make([]string, len(cols))
	defs := make([]schema.Column, len(cols))
	for i, c := range cols {
		name, def, ok := in.def.Lookup(c)
		if !ok {
			return nil, nil, fmt.Errorf("%s %s: %w: %s", in.op, in.table, ErrUnknownColumn, c)
		}
		names[i], defs[i] = name, def
	}
	return names, defs, nil
}

// writable resolves and coerces values for INSERT or UPDATE. vals may hold
// several rows of len(cols) values each when rows is set. Columns the
// application may not write are dropped together with their values.
func (s *Store) writable(in input, cols []string, vals []any, rows bool) ([]string, []any, error) {
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%s %s: %w", in.op, in.table, sqlgen.ErrNoColumns)
	}
	if len(cols) != len(vals) {
		if !rows || len(vals) == 0 || len(vals)%len(cols) != 0 {
			return nil, nil, fmt.Errorf("%s %s: %w", in.op, in.table, ErrColumnValueMismatch)
		}
	}
	names, defs, err := in.resolve(cols)
	if err != nil {
		return nil, nil, err
	}

	var keep []int
	var outCols []string
	for i, def := range defs {
		if def.DbOnly() {
			continue
		}
		keep = append(keep, i)
		outCols = append(outCols, names[i])
	}

	outVals := make([]any, 0, len(vals)/len(cols)*len(keep))
	for start := 0; start < len(vals); start += len(cols) {
		for _, i := range keep {
			v, err := s.converter.ToSQL(defs[i], vals[start+i])
			if err != nil {
				return nil, nil, fmt.Errorf("%s %s: column %s: %w", in.op, in.table, names[i], err)
			}
			outVals = append(outVals, v)
		}
	}
	return outCols, outVals, nil
}

// predicate resolves and coerces the values of an equality filter. Unlike
// writable it keeps db-only columns, which are commonly used as ids.
func (s *Store) predicate(in input, cols []string, vals []any) ([]string, []any, error) {
	if len(cols) != len(vals) {
		return nil, nil, fmt.Errorf("%s %s: %w", in.op, in.table, ErrColumnValueMismatch)
	}
	names, defs, err := in.resolve(cols)
	if err != nil {
		return nil, nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i], err = s.converter.ToSQL(defs[i], v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s %s: column %s: %w", in.op, in.table, names[i], err)
		}
	}
	return names, out, nil
}
