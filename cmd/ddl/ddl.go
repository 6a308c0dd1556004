package ddl

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/sqlgen"
)

var (
	ddlFile   string
	ddlOutput string
)

var DdlCmd = &cobra.Command{
	Use:          "ddl",
	Short:        "Print CREATE TABLE statements for a schema file",
	Long:         "Render a CREATE TABLE statement for every table of the schema file (--file) in dependency order. No database connection is needed.",
	RunE:         runDdl,
	SilenceUsage: true,
}

func init() {
	DdlCmd.Flags().StringVar(&ddlFile, "file", "", "Path to schema file, .yaml, .toml or .json (required)")
	DdlCmd.Flags().StringVarP(&ddlOutput, "output", "o", "", "Write to file instead of stdout")

	DdlCmd.MarkFlagRequired("file")
}

// Render returns the DDL for the schema stored at path.
func Render(path string) (string, error) {
	s, err := schema.Load(path)
	if err != nil {
		return "", err
	}
	stmts, err := sqlgen.CreateSchema(s)
	if err != nil {
		return "", err
	}
	if len(stmts) == 0 {
		return "", nil
	}
	return strings.Join(stmts, "\n\n") + "\n", nil
}

func runDdl(cmd *cobra.Command, args []string) error {
	content, err := Render(ddlFile)
	if err != nil {
		return err
	}

	if ddlOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(ddlOutput, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write DDL to %s: %w", ddlOutput, err)
	}
	return nil
}
