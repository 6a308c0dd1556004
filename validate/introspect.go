package validate

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/fingerprint"
)

const listTablesSQL = `SELECT table_name::text AS table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema = $1
  AND table_catalog = COALESCE(NULLIF($2::text, ''), current_database())
ORDER BY table_name`

const listColumnsSQL = `SELECT table_name::text AS table_name,
  column_name::text AS column_name,
  data_type::text AS data_type,
  character_maximum_length::bigint AS character_maximum_length,
  is_nullable::text AS is_nullable,
  numeric_precision::bigint AS numeric_precision
FROM information_schema.columns
WHERE table_schema = $1
  AND table_catalog = COALESCE(NULLIF($2::text, ''), current_database())
ORDER BY table_name, ordinal_position`

// LiveColumn is a column as reported by information_schema.columns.
type LiveColumn struct {
	Table            string `json:"table"`
	Name             string `json:"name"`
	DataType         string `json:"dataType"`
	Nullable         bool   `json:"nullable"`
	CharMaxLength    *int64 `json:"charMaxLength,omitempty"`
	NumericPrecision *int64 `json:"numericPrecision,omitempty"`
}

// Snapshot is the part of a live database the validator looks at.
type Snapshot struct {
	Tables  []string     `json:"tables"`
	Columns []LiveColumn `json:"columns"`
}

// Fingerprint hashes the snapshot.
func (s *Snapshot) Fingerprint() (*fingerprint.SchemaFingerprint, error) {
	return fingerprint.ComputeFingerprint(s)
}

// ListTables returns the base tables of the inspected schema.
func ListTables(ctx context.Context, q executor.Querier, opts Options) ([]string, error) {
	var tables []string
	for row, err := range q.Query(ctx, listTablesSQL, opts.schemaName(), opts.Catalog) {
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		if name := rowString(row, "table_name"); name != "" {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

// ListColumns returns every column of the inspected schema.
func ListColumns(ctx context.Context, q executor.Querier, opts Options) ([]LiveColumn, error) {
	var columns []LiveColumn
	for row, err := range q.Query(ctx, listColumnsSQL, opts.schemaName(), opts.Catalog) {
		if err != nil {
			return nil, fmt.Errorf("failed to list columns: %w", err)
		}
		columns = append(columns, LiveColumn{
			Table:            rowString(row, "table_name"),
			Name:             rowString(row, "column_name"),
			DataType:         rowString(row, "data_type"),
			Nullable:         rowString(row, "is_nullable") == "YES",
			CharMaxLength:    rowInt(row, "character_maximum_length"),
			NumericPrecision: rowInt(row, "numeric_precision"),
		})
	}
	return columns, nil
}

// Introspect reads tables and columns concurrently.
func Introspect(ctx context.Context, q executor.Querier, opts Options) (*Snapshot, error) {
	snap := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	if _, pinned := q.(*executor.Conn); pinned {
		g.SetLimit(1)
	}
	g.Go(func() error {
		tables, err := ListTables(gctx, q, opts)
		snap.Tables = tables
		return err
	})
	g.Go(func() error {
		columns, err := ListColumns(gctx, q, opts)
		snap.Columns = columns
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func rowString(row executor.Row, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func rowInt(row executor.Row, key string) *int64 {
	var n int64
	switch v := row[key].(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case int:
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}
