package schema

import (
	"maps"
	"slices"
	"sort"
	"strings"
)

// Relation points a column at a column of another table.
type Relation struct {
	Table  string `json:"struct" yaml:"struct" toml:"struct"`
	Column string `json:"prop" yaml:"prop" toml:"prop"`
}

// CompositeForeignKey is a foreign key spanning several columns.
type CompositeForeignKey struct {
	Columns        []string `json:"props" yaml:"props" toml:"props"`
	ForeignColumns []string `json:"propsForeign" yaml:"propsForeign" toml:"propsForeign"`
	Table          string   `json:"struct" yaml:"struct" toml:"struct"`
}

// Column is the fully expanded column definition.
type Column struct {
	Type        GenericType  `json:"type" yaml:"type" toml:"type"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty" toml:"constraints,omitempty"`
	// TypeMax is the upper numeric bound, or the maximum length of a String.
	TypeMax *int64 `json:"typeMax,omitempty" yaml:"typeMax,omitempty" toml:"typeMax,omitempty"`
	TypeMin *int64 `json:"typeMin,omitempty" yaml:"typeMin,omitempty" toml:"typeMin,omitempty"`
	// DefaultValue is a literal; it is escaped when rendered into DDL.
	DefaultValue any `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" toml:"defaultValue,omitempty"`
	// DefaultExpression is trusted SQL, e.g. now().
	DefaultExpression string `json:"defaultExpression,omitempty" yaml:"defaultExpression,omitempty" toml:"defaultExpression,omitempty"`
	// CheckExpression is the boolean expression used by the Check constraint.
	CheckExpression string    `json:"check,omitempty" yaml:"check,omitempty" toml:"check,omitempty"`
	Relation        *Relation `json:"relation,omitempty" yaml:"relation,omitempty" toml:"relation,omitempty"`
}

// Has reports whether the column carries constraint c.
func (c Column) Has(constraint Constraint) bool {
	return HasConstraint(c.Constraints, constraint)
}

// NotNull reports whether the column is NOT NULL in the database.
func (c Column) NotNull() bool {
	return IsNotNull(c.Type, c.Constraints)
}

// DbOnly reports whether the application is barred from writing the column.
func (c Column) DbOnly() bool {
	return HasDbOnlyConstraints(c.Constraints)
}

func (c Column) clone() Column {
	out := c
	out.Constraints = slices.Clone(c.Constraints)
	if c.TypeMax != nil {
		v := *c.TypeMax
		out.TypeMax = &v
	}
	if c.TypeMin != nil {
		v := *c.TypeMin
		out.TypeMin = &v
	}
	if c.Relation != nil {
		r := *c.Relation
		out.Relation = &r
	}
	return out
}

// Table is the fully expanded ("strict") table definition.
type Table struct {
	Columns    map[string]Column     `json:"struct" yaml:"struct" toml:"struct"`
	Unique     [][]string            `json:"unique,omitempty" yaml:"unique,omitempty" toml:"unique,omitempty"`
	PrimaryKey []string              `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" toml:"primaryKey,omitempty"`
	ForeignKey []CompositeForeignKey `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty" toml:"foreignKey,omitempty"`
}

// Lookup finds a column by name. An exact match wins, otherwise the
// comparison is case-insensitive.
func (t Table) Lookup(name string) (string, Column, bool) {
	return lookupFold(t.Columns, name)
}

// ColumnNames returns the column names in rendering order: primary key and
// automatic columns first, the rest lexically.
func (t Table) ColumnNames() []string {
	names := slices.Collect(maps.Keys(t.Columns))
	sort.Slice(names, func(i, j int) bool {
		ki, kj := leading(t.Columns[names[i]]), leading(t.Columns[names[j]])
		if ki != kj {
			return ki
		}
		return names[i] < names[j]
	})
	return names
}

func leading(c Column) bool {
	return HasConstraint(c.Constraints, PrimaryKey) || HasConstraint(c.Constraints, Automatic) && c.Type != TimestampS
}

// Dependencies returns the distinct tables this table references, sorted.
func (t Table) Dependencies() []string {
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if c.Relation != nil {
			seen[c.Relation.Table] = true
		}
	}
	for _, fk := range t.ForeignKey {
		seen[fk.Table] = true
	}
	deps := slices.Collect(maps.Keys(seen))
	sort.Strings(deps)
	return deps
}

func (t Table) clone() Table {
	out := Table{
		Columns:    make(map[string]Column, len(t.Columns)),
		PrimaryKey: slices.Clone(t.PrimaryKey),
	}
	for name, c := range t.Columns {
		out.Columns[name] = c.clone()
	}
	if t.Unique != nil {
		out.Unique = make([][]string, len(t.Unique))
		for i, group := range t.Unique {
			out.Unique[i] = slices.Clone(group)
		}
	}
	if t.ForeignKey != nil {
		out.ForeignKey = make([]CompositeForeignKey, len(t.ForeignKey))
		for i, fk := range t.ForeignKey {
			out.ForeignKey[i] = CompositeForeignKey{
				Columns:        slices.Clone(fk.Columns),
				ForeignColumns: slices.Clone(fk.ForeignColumns),
				Table:          fk.Table,
			}
		}
	}
	return out
}

// Schema maps table names to strict table definitions. Keys are case
// sensitive; Lookup is not.
type Schema map[string]Table

// TableNames returns the table names sorted lexically.
func (s Schema) TableNames() []string {
	names := slices.Collect(maps.Keys(s))
	sort.Strings(names)
	return names
}

// Lookup finds a table by name, falling back to a case-insensitive match.
func (s Schema) Lookup(name string) (string, Table, bool) {
	return lookupFold(s, name)
}

// Column resolves "table", "column" case-insensitively.
func (s Schema) Column(table, column string) (Column, bool) {
	_, t, ok := s.Lookup(table)
	if !ok {
		return Column{}, false
	}
	_, c, ok := t.Lookup(column)
	return c, ok
}

// Definition converts the schema back to the loose form. Strictify of the
// result is equal to s.
func (s Schema) Definition() Definition {
	def := make(Definition, len(s))
	for name, t := range s {
		def[name] = t
	}
	return def
}

// Restrict returns the subset of s whose tables satisfy keep.
func (s Schema) Restrict(keep func(name string) bool) Schema {
	out := make(Schema)
	for name, t := range s {
		if keep(name) {
			out[name] = t
		}
	}
	return out
}

func lookupFold[V any](m map[string]V, name string) (string, V, bool) {
	if v, ok := m[name]; ok {
		return name, v, true
	}
	keys := slices.Collect(maps.Keys(m))
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return k, m[k], true
		}
	}
	var zero V
	return "", zero, false
}
