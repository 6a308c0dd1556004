package validate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pgschema/sqltables/validate"
)

func TestFixControlsFromFlags(t *testing.T) {
	if got := FixControls(); got != validate.DefaultFixControls {
		t.Errorf("default flags give %+v, want %+v", got, validate.DefaultFixControls)
	}

	if err := ValidateCmd.Flags().Parse([]string{"--additive=false", "--drop-not-null"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		validateAdditive = validate.DefaultFixControls.Additive
		validateDropNotNull = validate.DefaultFixControls.CodeToDbNull
	})

	want := validate.FixControls{Additive: false, CodeToDbNotNull: true, CodeToDbNull: true}
	if got := FixControls(); got != want {
		t.Errorf("FixControls() = %+v, want %+v", got, want)
	}
}

func TestRejectsUnknownOutput(t *testing.T) {
	t.Setenv("PGDATABASE", "db")
	t.Setenv("PGUSER", "user")

	var buf bytes.Buffer
	ValidateCmd.SetOut(&buf)
	ValidateCmd.SetErr(&buf)
	ValidateCmd.SetArgs([]string{"--file", "schema.yaml", "--output", "xml"})
	t.Cleanup(func() { validateOutput = "human" })

	err := ValidateCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown output format: xml") {
		t.Errorf("expected unknown output format error, got %v", err)
	}
}
