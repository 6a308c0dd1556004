// Package validate compares a declared schema with a live PostgreSQL
// database and turns the differences into corrective DDL.
//
// Validation never fails because of drift: differences are returned as
// Validation values. Errors are reserved for failed queries and for
// schemas that cannot be rendered.
package validate

import (
	"fmt"
	"strings"
)

// Kind is the kind of object a validation refers to.
type Kind string

const (
	KindTable  Kind = "table"
	KindColumn Kind = "column"
	// KindType marks type and nullability findings on an existing column.
	KindType Kind = "type"
)

// Reason explains a validation.
type Reason string

const (
	NotInCode    Reason = "not in code"
	NotInDb      Reason = "not in db"
	TypeMismatch Reason = "type mismatch"
	Constraint   Reason = "constraint"
)

// Extra details of Constraint validations.
const (
	ExtraNullInDb    = "db: NULL code: NOT NULL"
	ExtraNotNullInDb = "db: NOT NULL code: NULL"
)

// Validation is one difference between the schema and the database. Name
// is a bare table name or "table.column".
type Validation struct {
	Kind   Kind   `json:"type"`
	Name   string `json:"name"`
	Reason Reason `json:"reason"`
	Extra  string `json:"extra,omitempty"`
}

func (v Validation) String() string {
	if v.Extra == "" {
		return fmt.Sprintf("%s %s: %s", v.Kind, v.Name, v.Reason)
	}
	return fmt.Sprintf("%s %s: %s (%s)", v.Kind, v.Name, v.Reason, v.Extra)
}

// Table returns the table part of the name.
func (v Validation) Table() string {
	table, _, _ := strings.Cut(v.Name, ".")
	return table
}

// Column returns the column part of the name, empty for table validations.
func (v Validation) Column() string {
	_, column, _ := strings.Cut(v.Name, ".")
	return column
}

func columnName(table, column string) string {
	return table + "." + column
}

// Filter hides live objects from validation. *ignore.Config implements it.
type Filter interface {
	ShouldIgnoreTable(table string) bool
	ShouldIgnoreColumn(table, column string) bool
}

// Options scope a validation pass.
type Options struct {
	// Catalog is the database to inspect. Empty means current_database().
	Catalog string
	// Schema is the PostgreSQL schema to inspect. Empty means "public".
	Schema string
	// ReportUnknownTables adds NotInCode entries for live tables missing
	// from the declared schema. Fixes never act on them.
	ReportUnknownTables bool
	// Ignore hides matching tables and columns on both sides.
	Ignore Filter
}

// DefaultSchema is inspected when Options.Schema is empty.
const DefaultSchema = "public"

func (o Options) schemaName() string {
	if o.Schema == "" {
		return DefaultSchema
	}
	return o.Schema
}

func (o Options) ignoreTable(table string) bool {
	return o.Ignore != nil && o.Ignore.ShouldIgnoreTable(table)
}

func (o Options) ignoreColumn(table, column string) bool {
	return o.Ignore != nil && o.Ignore.ShouldIgnoreColumn(table, column)
}
