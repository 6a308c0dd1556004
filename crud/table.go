package crud

import (
	"context"
	"iter"

	"github.com/pgschema/sqltables/executor"
)

// Table binds the record level operations of a Store to one table.
type Table struct {
	store *Store
	name  string
}

// Table returns the handle of a declared table, or false if the schema
// does not declare it.
func (s *Store) Table(name string) (*Table, bool) {
	canonical, _, ok := s.schema.Lookup(name)
	if !ok {
		return nil, false
	}
	return &Table{store: s, name: canonical}, true
}

// Tables returns a handle for every table of the schema.
func (s *Store) Tables() map[string]*Table {
	out := make(map[string]*Table, len(s.schema))
	for name := range s.schema {
		out[name] = &Table{store: s, name: name}
	}
	return out
}

// Name returns the declared table name.
func (t *Table) Name() string { return t.name }

func (t *Table) Insert(ctx context.Context, rec Record) ([]executor.Row, error) {
	return t.store.InsertRecord(ctx, t.name, rec)
}

func (t *Table) Update(ctx context.Context, idCols []string, idVals []any, rec Record) ([]executor.Row, error) {
	return t.store.UpdateRecord(ctx, t.name, idCols, idVals, rec)
}

func (t *Table) Delete(ctx context.Context, idCols []string, idVals []any) ([]executor.Row, error) {
	return t.store.Delete(ctx, t.name, idCols, idVals)
}

func (t *Table) Select(ctx context.Context) iter.Seq2[executor.Row, error] {
	return t.store.Select(ctx, t.name)
}

func (t *Table) SelectWhere(ctx context.Context, idCols []string, idVals []any) iter.Seq2[executor.Row, error] {
	return t.store.SelectWhere(ctx, t.name, idCols, idVals)
}
