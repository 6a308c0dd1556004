package generate

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const schemaJSON = `{
  "users": {
    "id": {"type": "UInt64", "constraints": ["PrimaryKey", "Automatic"]},
    "name": {"type": "String", "constraints": ["NotNull"]}
  }
}`

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		GenerateCmd.SetOut(&buf)
		GenerateCmd.SetArgs([]string{"--file", schemaPath, "--package", "models", "--out", ""})
		if err := GenerateCmd.Execute(); err != nil {
			t.Fatalf("generate command failed: %v", err)
		}
		if !strings.Contains(buf.String(), "type User struct") {
			t.Errorf("expected User struct, got:\n%s", buf.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		out := filepath.Join(dir, "models.go")
		GenerateCmd.SetArgs([]string{"--file", schemaPath, "--package", "db", "--out", out})
		if err := GenerateCmd.Execute(); err != nil {
			t.Fatalf("generate command failed: %v", err)
		}

		f, err := parser.ParseFile(token.NewFileSet(), out, nil, 0)
		if err != nil {
			t.Fatalf("generated file does not parse: %v", err)
		}
		if f.Name.Name != "db" {
			t.Errorf("package = %s, want db", f.Name.Name)
		}
	})
}
