// Package codegen writes Go types for the tables of a schema.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/pgschema/sqltables/schema"
)

const header = "Code generated by sqltables. DO NOT EDIT."

var qualifiedTypes = map[string][2]string{
	"time.Time":       {"time", "Time"},
	"decimal.Decimal": {"github.com/shopspring/decimal", "Decimal"},
}

// TypeName is the Go type name of a table: singular and camel cased.
func TypeName(table string) string {
	return acronyms(inflect.Camelize(inflect.Singularize(table)))
}

// FieldName is the exported Go field name of a column.
func FieldName(column string) string {
	return acronyms(inflect.Camelize(column))
}

func acronyms(name string) string {
	switch {
	case name == "Id":
		return "ID"
	case strings.HasSuffix(name, "Id"):
		return strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func goType(col schema.Column) (jen.Code, error) {
	mapping, ok := schema.MappingFor(col.Type)
	if !ok {
		return nil, fmt.Errorf("unsupported type %q", col.Type)
	}

	t := jen.Id(mapping.GoType)
	if q, ok := qualifiedTypes[mapping.GoType]; ok {
		t = jen.Qual(q[0], q[1])
	}
	if !col.NotNull() {
		return jen.Op("*").Add(t), nil
	}
	return t, nil
}

// Generate renders one struct per table with db and json tags. Nullable
// columns become pointers.
func Generate(s schema.Schema, pkg string) ([]byte, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment(header)

	seen := make(map[string]string)
	for _, tableName := range s.TableNames() {
		table := s[tableName]
		typeName := TypeName(tableName)
		if other, dup := seen[typeName]; dup {
			return nil, fmt.Errorf("tables %s and %s both map to type %s", other, tableName, typeName)
		}
		seen[typeName] = tableName

		var fields []jen.Code
		for _, colName := range table.ColumnNames() {
			t, err := goType(table.Columns[colName])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", tableName, colName, err)
			}
			fields = append(fields, jen.Id(FieldName(colName)).Add(t).Tag(map[string]string{
				"db":   strings.ToLower(colName),
				"json": colName,
			}))
		}

		f.Commentf("%s is a row of the %s table.", typeName, tableName)
		f.Type().Id(typeName).Struct(fields...)
		f.Line()

		f.Comment("TableName returns the name of the table.")
		f.Func().Params(jen.Id(typeName)).Id("TableName").Params().String().Block(
			jen.Return(jen.Lit(tableName)),
		)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the schema into path.
func WriteFile(path string, s schema.Schema, pkg string) error {
	src, err := Generate(s, pkg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, src, 0o644)
}
