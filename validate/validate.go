package validate

import (
	"context"
	"strings"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/schema"
)

// Validate inspects the database behind q and reports how it differs from s.
func Validate(ctx context.Context, q executor.Querier, s schema.Schema, opts Options) ([]Validation, error) {
	_, validations, err := Inspect(ctx, q, s, opts)
	return validations, err
}

// Inspect is Validate that also returns the snapshot the validations were
// computed from.
func Inspect(ctx context.Context, q executor.Querier, s schema.Schema, opts Options) (*Snapshot, []Validation, error) {
	snap, err := Introspect(ctx, q, opts)
	if err != nil {
		return nil, nil, err
	}
	validations := Check(s, snap, opts)
	logger.Get().Debug("Validated database",
		"tables", len(snap.Tables),
		"columns", len(snap.Columns),
		"validations", len(validations))
	return snap, validations, nil
}

// Check compares s with a snapshot. Table validations come first. Columns
// are only checked for tables present in the database, since missing tables
// are created as a whole.
func Check(s schema.Schema, live *Snapshot, opts Options) []Validation {
	validations := checkTables(s, live, opts)

	present := make(map[string]bool, len(live.Tables))
	for _, table := range live.Tables {
		present[strings.ToLower(table)] = true
	}
	existing := s.Restrict(func(name string) bool {
		return present[strings.ToLower(name)] && !opts.ignoreTable(name)
	})

	return append(validations, checkColumns(existing, live.Columns, opts)...)
}

func checkTables(s schema.Schema, live *Snapshot, opts Options) []Validation {
	var validations []Validation

	present := make(map[string]bool, len(live.Tables))
	for _, table := range live.Tables {
		if opts.ignoreTable(table) {
			continue
		}
		present[strings.ToLower(table)] = true

		if _, _, ok := s.Lookup(table); !ok && opts.ReportUnknownTables {
			validations = append(validations, Validation{Kind: KindTable, Name: table, Reason: NotInCode})
		}
	}

	for _, name := range s.TableNames() {
		if opts.ignoreTable(name) || present[strings.ToLower(name)] {
			continue
		}
		validations = append(validations, Validation{Kind: KindTable, Name: name, Reason: NotInDb})
	}
	return validations
}

func checkColumns(s schema.Schema, live []LiveColumn, opts Options) []Validation {
	var (
		validations []Validation
		seen        = make(map[string]bool, len(live))
	)

	for _, col := range live {
		if opts.ignoreColumn(col.Table, col.Name) {
			continue
		}
		_, table, ok := s.Lookup(col.Table)
		if !ok {
			continue
		}
		seen[strings.ToLower(columnName(col.Table, col.Name))] = true

		_, def, ok := table.Lookup(col.Name)
		if !ok {
			validations = append(validations, Validation{
				Kind:   KindColumn,
				Name:   columnName(col.Table, col.Name),
				Reason: NotInCode,
			})
			continue
		}
		if v := CompareTypes(def, col); v != nil {
			validations = append(validations, *v)
		}
	}

	for _, tableName := range s.TableNames() {
		for _, colName := range s[tableName].ColumnNames() {
			if opts.ignoreColumn(tableName, colName) || seen[strings.ToLower(columnName(tableName, colName))] {
				continue
			}
			validations = append(validations, Validation{
				Kind:   KindColumn,
				Name:   columnName(tableName, colName),
				Reason: NotInDb,
			})
		}
	}
	return validations
}
