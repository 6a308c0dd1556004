package schema

// ColumnItem is either a bare GenericType or a full Column.
type ColumnItem interface {
	strictColumn() Column
}

// TableItem is a bare Struct, a TableDef with composite constraints, or an
// already strict Table.
type TableItem interface {
	strictTable() Table
}

// Struct is the terse column map of a table.
type Struct map[string]ColumnItem

// TableDef is a table with composite constraints whose columns may still
// use the terse form.
type TableDef struct {
	Struct     Struct
	Unique     [][]string
	PrimaryKey []string
	ForeignKey []CompositeForeignKey
}

// Definition is a schema that may use shorthand at any level.
type Definition map[string]TableItem

func (t GenericType) strictColumn() Column { return Column{Type: t} }

func (c Column) strictColumn() Column { return c.clone() }

func (s Struct) strictTable() Table {
	t := Table{Columns: make(map[string]Column, len(s))}
	for name, item := range s {
		t.Columns[name] = item.strictColumn()
	}
	return t
}

func (d TableDef) strictTable() Table {
	t := Table{
		Unique:     d.Unique,
		PrimaryKey: d.PrimaryKey,
		ForeignKey: d.ForeignKey,
		Columns:    d.Struct.strictTable().Columns,
	}
	// clone detaches the composite slices from the caller's definition
	return t.clone()
}

func (t Table) strictTable() Table { return t.clone() }

// Strictify expands every shorthand in def. The input is never mutated and
// Strictify(Strictify(def).Definition()) equals Strictify(def).
func Strictify(def Definition) Schema {
	s := make(Schema, len(def))
	for name, item := range def {
		if item == nil {
			s[name] = Table{Columns: map[string]Column{}}
			continue
		}
		s[name] = item.strictTable()
	}
	return s
}

// StrictifyColumn expands a single column item.
func StrictifyColumn(item ColumnItem) Column {
	return item.strictColumn()
}

// MergeCommonColumns returns a copy of def in which every table also holds
// the columns of common it does not already declare.
func MergeCommonColumns(common Struct, def Definition) Definition {
	out := make(Definition, len(def))
	for name, item := range def {
		t := Table{Columns: map[string]Column{}}
		if item != nil {
			t = item.strictTable()
		}
		for colName, colItem := range common {
			if _, exists := t.Columns[colName]; !exists {
				t.Columns[colName] = colItem.strictColumn()
			}
		}
		out[name] = t
	}
	return out
}
