package color

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a new Color instance
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + Reset
}

// Add colors a string to indicate additions (green)
func (c *Color) Add(text string) string { return c.wrap(Green, text) }

// Change colors a string to indicate modifications (yellow)
func (c *Color) Change(text string) string { return c.wrap(Yellow, text) }

// Destroy colors a string to indicate problems or removals (red)
func (c *Color) Destroy(text string) string { return c.wrap(Red, text) }

// Bold makes text bold
func (c *Color) Bold(text string) string { return c.wrap(Bold, text) }

// Cyan colors text cyan (for headers and labels)
func (c *Color) Cyan(text string) string { return c.wrap(Cyan, text) }

// ReasonSymbol returns the symbol shown in front of a validation line.
// Objects missing from the database will be added, mismatches changed and
// objects unknown to the code are reported as extra.
func (c *Color) ReasonSymbol(reason string) string {
	switch reason {
	case "not in db":
		return c.Add("+")
	case "type mismatch", "constraint":
		return c.Change("~")
	case "not in code":
		return c.Destroy("?")
	default:
		return " "
	}
}

// FormatValidationLine formats one validation entry.
func (c *Color) FormatValidationLine(kind, name, reason, extra string) string {
	line := fmt.Sprintf("  %s %s %s: %s", c.ReasonSymbol(reason), kind, c.Bold(name), reason)
	if extra != "" {
		line += " (" + extra + ")"
	}
	return line
}

// FormatSummaryLine formats the per reason counts of a report.
func (c *Color) FormatSummaryLine(missing, mismatched, unknown int) string {
	// Always show all three categories, even if zero
	parts := []string{
		c.Add(fmt.Sprintf("%d missing in database", missing)),
		c.Change(fmt.Sprintf("%d mismatched", mismatched)),
		c.Destroy(fmt.Sprintf("%d not in code", unknown)),
	}

	return fmt.Sprintf("Drift: %s.", strings.Join(parts, ", "))
}
