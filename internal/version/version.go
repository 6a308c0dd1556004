// Package version reports the sqltables release and build metadata.
package version

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
)

//go:embed VERSION
var versionFile string

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Version returns the release number from the VERSION file.
func Version() string {
	return strings.TrimSpace(versionFile)
}

// Platform returns the OS/architecture combination
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// String is the one line build description printed by the CLI, e.g.
// "sqltables v0.1.0@abc123 linux/amd64 2024-01-01".
func String() string {
	return fmt.Sprintf("sqltables v%s@%s %s %s", Version(), GitCommit, Platform(), BuildDate)
}
