// Package ignore loads the .sqltablesignore file that hides live database
// objects from validation.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// IgnoreFileName is the default name of the ignore file
	IgnoreFileName = ".sqltablesignore"
)

// Config holds table and column patterns. Patterns support the * wildcard
// and negation with a leading !.
type Config struct {
	Tables  []string
	Columns []string
}

// TomlConfig represents the TOML structure of the .sqltablesignore file
type TomlConfig struct {
	Tables  PatternConfig `toml:"tables,omitempty"`
	Columns PatternConfig `toml:"columns,omitempty"`
}

// PatternConfig is one section of the ignore file.
type PatternConfig struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// LoadIgnoreFile loads the .sqltablesignore file from the current directory
// Returns nil if the file doesn't exist (ignore functionality is optional)
func LoadIgnoreFile() (*Config, error) {
	return LoadIgnoreFileFromPath(IgnoreFileName)
}

// LoadIgnoreFileFromPath loads an ignore file from the specified path
// Returns nil if the file doesn't exist
func LoadIgnoreFileFromPath(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var tomlConfig TomlConfig
	if _, err := toml.DecodeFile(filePath, &tomlConfig); err != nil {
		return nil, err
	}

	return &Config{
		Tables:  tomlConfig.Tables.Patterns,
		Columns: tomlConfig.Columns.Patterns,
	}, nil
}

// ShouldIgnoreTable checks if a table should be ignored based on the patterns
func (c *Config) ShouldIgnoreTable(tableName string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(strings.ToLower(tableName), c.Tables)
}

// ShouldIgnoreColumn checks a "table.column" name against the column
// patterns. Columns of ignored tables are ignored too.
func (c *Config) ShouldIgnoreColumn(tableName, columnName string) bool {
	if c == nil {
		return false
	}
	if c.ShouldIgnoreTable(tableName) {
		return true
	}
	return shouldIgnore(strings.ToLower(tableName+"."+columnName), c.Columns)
}

// shouldIgnore checks if a name should be ignored based on the patterns.
// Negation patterns take precedence over inclusion patterns.
func shouldIgnore(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	matched := false
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern, name) {
			matched = true
			break
		}
	}

	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern[1:], name) {
			return false
		}
	}

	return matched
}

// matchPattern matches a glob-style pattern against a string
func matchPattern(pattern, name string) bool {
	pattern = strings.ToLower(pattern)
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		// invalid patterns match literally
		return pattern == name
	}
	return matched
}
