package sqlgen

import (
	"fmt"
	"strings"

	"github.com/pgschema/sqltables/convert"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/schema"
)

// DefaultVarCharSize is used for String columns without a typeMax.
const DefaultVarCharSize = 255

// VarChar renders varchar(size).
func VarChar(size int64) string {
	return fmt.Sprintf("varchar(%d)", size)
}

// Unique renders a table level UNIQUE constraint.
func Unique(cols []string) string {
	return "UNIQUE(" + identList(cols) + ")"
}

// PrimaryKey renders a table level PRIMARY KEY constraint.
func PrimaryKey(cols []string) string {
	return "PRIMARY KEY(" + identList(cols) + ")"
}

// References renders a column level foreign key.
func References(table, column string) string {
	return fmt.Sprintf("REFERENCES %s (%s)", QuoteIdentifier(table), QuoteIdentifier(column))
}

// ForeignKeyComposite renders a table level foreign key over several columns.
func ForeignKeyComposite(cols, refs []string, table string) (string, error) {
	if len(cols) != len(refs) {
		return "", fmt.Errorf("foreign key on %s: %d columns but %d references", table, len(cols), len(refs))
	}
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		identList(cols), QuoteIdentifier(table), identList(refs)), nil
}

// CreateTable renders CREATE TABLE from column definitions and table
// constraints.
func CreateTable(table string, defs []string) string {
	return fmt.Sprintf("CREATE TABLE %s (%s);", QuoteIdentifier(table), strings.Join(defs, ", "))
}

func alterTable(table string) string {
	return "ALTER TABLE " + QuoteIdentifier(table)
}

// AddColumn renders ALTER TABLE ... ADD COLUMN from a column definition.
func AddColumn(table, columnDef string) string {
	return fmt.Sprintf("%s ADD COLUMN %s;", alterTable(table), columnDef)
}

// SetNotNull renders ALTER TABLE ... ALTER COLUMN ... SET NOT NULL.
func SetNotNull(table, column string) string {
	return fmt.Sprintf("%s ALTER COLUMN %s SET NOT NULL;", alterTable(table), QuoteIdentifier(column))
}

// DropNotNull renders ALTER TABLE ... ALTER COLUMN ... DROP NOT NULL.
func DropNotNull(table, column string) string {
	return fmt.Sprintf("%s ALTER COLUMN %s DROP NOT NULL;", alterTable(table), QuoteIdentifier(column))
}

// ColumnDefinition renders the definition of one column as used by CREATE
// TABLE and ADD COLUMN. Automatic columns render their generated form only.
func ColumnDefinition(name string, col schema.Column) (string, error) {
	quoted := QuoteIdentifier(name)

	if col.Has(schema.Automatic) {
		ddl, ok := schema.Automatics[col.Type]
		if !ok {
			return "", &schema.UnsupportedAutomaticError{Column: name, Type: col.Type}
		}
		return quoted + " " + ddl, nil
	}

	mapping, ok := schema.MappingFor(col.Type)
	if !ok {
		return "", fmt.Errorf("column %s: unsupported type %q", name, col.Type)
	}

	def, err := columnDefault(col)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", name, err)
	}

	typ := mapping.Create
	if typ == "" {
		size := int64(DefaultVarCharSize)
		if col.TypeMax != nil {
			size = *col.TypeMax
		}
		typ = VarChar(size)
	} else if def != "" {
		// the mapping may carry its own default, e.g. for TimestampS
		typ, _, _ = strings.Cut(typ, " default ")
	}

	parts := []string{quoted, typ}
	parts = append(parts, columnConstraints(name, col)...)
	if col.Relation != nil {
		parts = append(parts, References(col.Relation.Table, col.Relation.Column))
	}
	if def != "" {
		parts = append(parts, def)
	}
	return strings.Join(parts, " "), nil
}

func columnConstraints(name string, col schema.Column) []string {
	var out []string
	for _, c := range col.Constraints {
		if schema.AppOnlyConstraints[c] {
			continue
		}
		mapping, ok := schema.ConstraintMappings[c]
		if !ok {
			logger.Get().Warn("unsupported constraint mapping", "column", name, "constraint", c)
			continue
		}
		if mapping.CreateParam != "" {
			if col.CheckExpression == "" {
				logger.Get().Warn("constraint needs an expression", "column", name, "constraint", c)
				continue
			}
			out = append(out, fmt.Sprintf("%s (%s)", mapping.CreateParam, col.CheckExpression))
			continue
		}
		out = append(out, mapping.Create)
	}
	return out
}

func columnDefault(col schema.Column) (string, error) {
	if col.DefaultExpression != "" {
		return "DEFAULT " + col.DefaultExpression, nil
	}
	if col.DefaultValue == nil {
		return "", nil
	}
	lit, err := convert.Literal(col, col.DefaultValue)
	if err != nil {
		return "", fmt.Errorf("default value: %w", err)
	}
	return "DEFAULT " + lit, nil
}

// TableDefinition renders the column definitions of a table followed by its
// composite UNIQUE, FOREIGN KEY and PRIMARY KEY constraints.
func TableDefinition(name string, table schema.Table) ([]string, error) {
	var defs []string
	for _, colName := range table.ColumnNames() {
		def, err := ColumnDefinition(colName, table.Columns[colName])
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		defs = append(defs, def)
	}
	for _, group := range table.Unique {
		defs = append(defs, Unique(group))
	}
	for _, fk := range table.ForeignKey {
		def, err := ForeignKeyComposite(fk.Columns, fk.ForeignColumns, fk.Table)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		defs = append(defs, def)
	}
	if len(table.PrimaryKey) > 0 {
		defs = append(defs, PrimaryKey(table.PrimaryKey))
	}
	return defs, nil
}

// CreateTableFromSchema renders the CREATE TABLE statement of one table.
func CreateTableFromSchema(name string, table schema.Table) (string, error) {
	defs, err := TableDefinition(name, table)
	if err != nil {
		return "", err
	}
	return CreateTable(name, defs), nil
}

// CreateSchema renders CREATE TABLE statements for every table of s in
// dependency order.
func CreateSchema(s schema.Schema) ([]string, error) {
	ordered, err := schema.OrderDependencies(s)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(ordered))
	for _, t := range ordered {
		stmt, err := CreateTableFromSchema(t.Name, t.Table)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
