package color

import (
	"strings"
	"testing"
)

func TestDisabledColorIsPlain(t *testing.T) {
	c := New(false)

	if got := c.Add("x"); got != "x" {
		t.Errorf("Add() = %q, want plain text", got)
	}
	if got := c.FormatValidationLine("column", "users.name", "type mismatch", "db: integer code: String"); got != "  ~ column users.name: type mismatch (db: integer code: String)" {
		t.Errorf("FormatValidationLine() = %q", got)
	}
	if got := c.FormatSummaryLine(1, 2, 3); got != "Drift: 1 missing in database, 2 mismatched, 3 not in code." {
		t.Errorf("FormatSummaryLine() = %q", got)
	}
}

func TestEnabledColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")

	c := New(true)
	if got := c.ReasonSymbol("not in db"); got != Green+"+"+Reset {
		t.Errorf("ReasonSymbol(not in db) = %q", got)
	}
	if got := c.ReasonSymbol("other"); got != " " {
		t.Errorf("ReasonSymbol(other) = %q", got)
	}
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("TERM", "xterm")

	if got := New(true).Destroy("gone"); strings.Contains(got, "\033") {
		t.Errorf("NO_COLOR should disable escapes, got %q", got)
	}
}
