package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/cmd/apply"
	"github.com/pgschema/sqltables/cmd/ddl"
	"github.com/pgschema/sqltables/cmd/generate"
	"github.com/pgschema/sqltables/cmd/plan"
	"github.com/pgschema/sqltables/cmd/validate"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/internal/version"
)

var Debug bool

var RootCmd = &cobra.Command{
	Use:   "sqltables",
	Short: "Schema-driven PostgreSQL table tool",
	Long: fmt.Sprintf(`sqltables keeps PostgreSQL tables in line with a declared schema.

Version: %s

Commands:
  validate  Compare a database with a schema file
  plan      Print the statements that would fix a database
  apply     Fix a database
  ddl       Print CREATE TABLE statements for a schema file
  generate  Generate Go structs for a schema file

Use "sqltables [command] --help" for more information about a command.`,
		version.String()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(validate.ValidateCmd)
	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(apply.ApplyCmd)
	RootCmd.AddCommand(ddl.DdlCmd)
	RootCmd.AddCommand(generate.GenerateCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	logger.SetGlobal(logger.New(os.Stderr, Debug), Debug)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
