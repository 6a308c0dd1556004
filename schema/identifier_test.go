package schema

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		expected   bool
	}{
		{"simple lowercase", "users", true},
		{"camelCase", "firstName", true},
		{"with underscore", "user_name", true},
		{"starts with underscore", "_private", true},
		{"digits after first", "t1", true},
		{"starts with number", "1table", false},
		{"contains dash", "user-table", false},
		{"contains space", "user table", false},
		{"contains quote", `user"`, false},
		{"statement injection", "users; drop table users", false},
		{"empty string", "", false},
		{"max length", strings.Repeat("a", 63), true},
		{"too long", strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidIdentifier(tt.identifier); got != tt.expected {
				t.Errorf("ValidIdentifier(%q) = %v; want %v", tt.identifier, got, tt.expected)
			}
		})
	}
}

func TestIsReservedWord(t *testing.T) {
	type testCase struct {
		name       string
		identifier string
		expected   bool
	}
	tests := []testCase{
		{"simple lowercase", "users", false},
		{"reserved word", "user", true},
		{"upper case reserved", "USER", true},
		{"limit keyword", "limit", true},
		{"update command", "update", true},
		{"camelCase", "firstName", false},
	}

	for word := range reservedWords {
		tests = append(tests, testCase{
			name:       fmt.Sprintf("reserved word: %q", word),
			identifier: word,
			expected:   true,
		})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReservedWord(tt.identifier); got != tt.expected {
				t.Errorf("IsReservedWord(%q) = %v; want %v", tt.identifier, got, tt.expected)
			}
		})
	}
}
