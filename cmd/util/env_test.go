package util

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("TEST_STRING", "test-value")
	if got := GetEnvWithDefault("TEST_STRING", "default"); got != "test-value" {
		t.Errorf("Expected GetEnvWithDefault to return 'test-value', got '%s'", got)
	}

	if got := GetEnvWithDefault("SQLTABLES_MISSING_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default', got '%s'", got)
	}

	t.Setenv("EMPTY_VAR", "")
	if got := GetEnvWithDefault("EMPTY_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default' for empty var, got '%s'", got)
	}
}

func TestGetEnvIntWithDefault(t *testing.T) {
	t.Setenv("TEST_INT", "12345")
	if got := GetEnvIntWithDefault("TEST_INT", 0); got != 12345 {
		t.Errorf("Expected GetEnvIntWithDefault to return 12345, got %d", got)
	}

	t.Setenv("TEST_INVALID_INT", "not-a-number")
	if got := GetEnvIntWithDefault("TEST_INVALID_INT", 999); got != 999 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 999, got %d", got)
	}

	if got := GetEnvIntWithDefault("SQLTABLES_MISSING_INT_VAR", 777); got != 777 {
		t.Errorf("Expected GetEnvIntWithDefault to return default 777, got %d", got)
	}
}

func newTestCommand(flags *ConnectionFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "test",
		PreRunE: PreRunEWithEnvVars(flags),
		RunE:    func(cmd *cobra.Command, args []string) error { return nil },
	}
	flags.Register(cmd)
	return cmd
}

func TestPreRunEWithEnvVars(t *testing.T) {
	t.Setenv("PGDATABASE", "test-db")
	t.Setenv("PGUSER", "test-user")
	t.Setenv("PGHOST", "test-host")
	t.Setenv("PGPORT", "1234")
	t.Setenv("PGAPPNAME", "test-app")
	t.Setenv("PGPASSWORD", "secret")

	var flags ConnectionFlags
	cmd := newTestCommand(&flags)
	cmd.SetArgs([]string{"--host", "flag-host"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	config := flags.Config()
	if config.Database != "test-db" || config.User != "test-user" {
		t.Errorf("Expected database and user from env, got %q/%q", config.Database, config.User)
	}
	if config.Host != "flag-host" {
		t.Errorf("Expected explicit --host to win over PGHOST, got %q", config.Host)
	}
	if config.Port != 1234 {
		t.Errorf("Expected port 1234 from PGPORT, got %d", config.Port)
	}
	if config.ApplicationName != "test-app" {
		t.Errorf("Expected application name from PGAPPNAME, got %q", config.ApplicationName)
	}
	if config.Password != "secret" {
		t.Errorf("Expected password from PGPASSWORD, got %q", config.Password)
	}
}

func TestPreRunERequiresDatabase(t *testing.T) {
	t.Setenv("PGDATABASE", "")
	t.Setenv("PGUSER", "")

	var flags ConnectionFlags
	cmd := newTestCommand(&flags)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs([]string{"--user", "someone"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "database name is required") {
		t.Errorf("Expected missing database error, got %v", err)
	}
}

func TestOptionsLoadsIgnoreFile(t *testing.T) {
	path := t.TempDir() + "/ignore.toml"
	writeFile(t, path, "[tables]\npatterns = [\"tmp_*\"]\n")

	flags := ConnectionFlags{Schema: "app"}
	opts, err := flags.Options(path, true)
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if opts.Schema != "app" || !opts.ReportUnknownTables {
		t.Errorf("Unexpected options: %+v", opts)
	}
	if opts.Ignore == nil || !opts.Ignore.ShouldIgnoreTable("tmp_orders") {
		t.Errorf("Expected tmp_orders to be ignored")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
