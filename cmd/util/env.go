package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntWithDefault returns the value of an environment variable as int or a default value if not set
func GetEnvIntWithDefault(envVar string, defaultValue int) int {
	if value := os.Getenv(envVar); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// PreRunEWithEnvVars creates a PreRunE function that fills connection flags
// from PG* environment variables when the flags were not set, then checks
// that a database and user are known.
func PreRunEWithEnvVars(flags *ConnectionFlags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		flags.applyEnv(cmd)

		if flags.Database == "" {
			return fmt.Errorf("database name is required (use --db flag or PGDATABASE environment variable)")
		}
		if flags.User == "" {
			return fmt.Errorf("database user is required (use --user flag or PGUSER environment variable)")
		}
		return nil
	}
}
