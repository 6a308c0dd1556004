package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pgschema/sqltables/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"version"})

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(output, "sqltables v"+version.Version()) {
		t.Errorf("expected output to start with 'sqltables v%s', got: %s", version.Version(), output)
	}
}
