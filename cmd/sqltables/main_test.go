package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PGDATABASE=from_dotenv\nPGUSER=from_dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("PGDATABASE", "")
	os.Unsetenv("PGDATABASE")
	t.Setenv("PGUSER", "from_env")

	loadDotEnv()

	if got := os.Getenv("PGDATABASE"); got != "from_dotenv" {
		t.Errorf("PGDATABASE = %q, want the .env value", got)
	}
	if got := os.Getenv("PGUSER"); got != "from_env" {
		t.Errorf("PGUSER = %q, the environment should win over .env", got)
	}
}

func TestLoadDotEnvWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	loadDotEnv()
}
