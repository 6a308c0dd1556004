// Package crud reads and writes rows of the tables declared in a schema.
//
// Column names are resolved case-insensitively against the schema, values
// are coerced with package convert, and columns the application may not
// write (DbModifyOnly, DbInternal) are dropped from INSERT and UPDATE.
package crud

import (
	"errors"
	"fmt"

	"github.com/pgschema/sqltables/convert"
	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/schema"
)

var (
	ErrTableNotFound         = errors.New("table not found")
	ErrColumnValueMismatch   = errors.New("columns and values length must be the same or values must be a multiple of columns")
	ErrUnknownColumn         = errors.New("unknown column")
	ErrDependencyNotResolved = errors.New("dependency not resolved")
	ErrInsertOrSelectFailed  = errors.New("insert or select failed")
)

// Store runs CRUD statements for one schema through a Querier.
type Store struct {
	schema    schema.Schema
	querier   executor.Querier
	converter convert.Converter
}

// Option configures a Store.
type Option func(*Store)

// WithConverter replaces the default lenient converter.
func WithConverter(c convert.Converter) Option {
	return func(s *Store) {
		s.converter = c
	}
}

// New returns a Store for s that runs statements on q.
func New(s schema.Schema, q executor.Querier, opts ...Option) *Store {
	store := &Store{
		schema:    s,
		querier:   q,
		converter: convert.Default,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Schema returns the schema the store was built with.
func (s *Store) Schema() schema.Schema {
	return s.schema
}

// Querier returns the querier statements run on.
func (s *Store) Querier() executor.Querier {
	return s.querier
}

// On returns a copy of the store that runs statements on q, e.g. a
// connection pinned for a transaction.
func (s *Store) On(q executor.Querier) *Store {
	clone := *s
	clone.querier = q
	return &clone
}

func (s *Store) table(op, name string) (string, schema.Table, error) {
	canonical, table, ok := s.schema.Lookup(name)
	if !ok {
		return "", schema.Table{}, fmt.Errorf("%s: %w: %s", op, ErrTableNotFound, name)
	}
	return canonical, table, nil
}
