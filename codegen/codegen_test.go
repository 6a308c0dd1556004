package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgschema/sqltables/schema"
)

func testSchema() schema.Schema {
	return schema.Strictify(schema.Definition{
		"users": schema.Struct{
			"id":        schema.Column{Type: schema.UInt64, Constraints: []schema.Constraint{schema.PrimaryKey, schema.Automatic}},
			"name":      schema.Column{Type: schema.String, Constraints: []schema.Constraint{schema.NotNull}},
			"balance":   schema.Decimal,
			"createdAt": schema.Column{Type: schema.TimestampS, Constraints: []schema.Constraint{schema.Automatic}},
		},
		"posts": schema.Struct{
			"id":     schema.Column{Type: schema.Int32, Constraints: []schema.Constraint{schema.PrimaryKey, schema.Automatic}},
			"userId": schema.Column{Type: schema.UInt64, Constraints: []schema.Constraint{schema.NotNull}, Relation: &schema.Relation{Table: "users", Column: "id"}},
		},
	})
}

// structFields parses src and returns "Field Type `tag`" per field of each struct.
func structFields(t *testing.T, src []byte) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "models.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	out := make(map[string][]string)
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok {
			return true
		}
		for _, field := range st.Fields.List {
			var typ strings.Builder
			writeType(&typ, field.Type)
			out[spec.Name.Name] = append(out[spec.Name.Name], field.Names[0].Name+" "+typ.String()+" "+field.Tag.Value)
		}
		return false
	})
	return out
}

func writeType(b *strings.Builder, expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		b.WriteString(e.Name)
	case *ast.StarExpr:
		b.WriteString("*")
		writeType(b, e.X)
	case *ast.SelectorExpr:
		writeType(b, e.X)
		b.WriteString("." + e.Sel.Name)
	}
}

func TestGenerate(t *testing.T) {
	src, err := Generate(testSchema(), "models")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(src), "// "+header))
	assert.Contains(t, string(src), "package models")
	assert.Contains(t, string(src), `"github.com/shopspring/decimal"`)
	assert.Contains(t, string(src), `return "users"`)

	fields := structFields(t, src)
	assert.Equal(t, []string{
		"ID int64 `db:\"id\" json:\"id\"`",
		"Balance *decimal.Decimal `db:\"balance\" json:\"balance\"`",
		"CreatedAt *time.Time `db:\"createdat\" json:\"createdAt\"`",
		"Name string `db:\"name\" json:\"name\"`",
	}, fields["User"])
	assert.Equal(t, []string{
		"ID int32 `db:\"id\" json:\"id\"`",
		"UserID int64 `db:\"userid\" json:\"userId\"`",
	}, fields["Post"])
}

func TestNames(t *testing.T) {
	assert.Equal(t, "User", TypeName("users"))
	assert.Equal(t, "Post", TypeName("posts"))
	assert.Equal(t, "ID", FieldName("id"))
	assert.Equal(t, "UserID", FieldName("userId"))
	assert.Equal(t, "Name", FieldName("name"))
}

func TestGenerateRejectsCollidingTypeNames(t *testing.T) {
	s := schema.Strictify(schema.Definition{
		"user":  schema.Struct{"id": schema.Int64},
		"users": schema.Struct{"id": schema.Int64},
	})

	_, err := Generate(s, "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both map to type User")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.go")
	require.NoError(t, WriteFile(path, testSchema(), "models"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type User struct")
}
