package generate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/codegen"
	"github.com/pgschema/sqltables/schema"
)

var (
	generateFile    string
	generatePackage string
	generateOut     string
)

var GenerateCmd = &cobra.Command{
	Use:          "generate",
	Short:        "Generate Go structs for a schema file",
	Long:         "Generate one Go struct per table of the schema file (--file), with db and json tags. No database connection is needed.",
	RunE:         runGenerate,
	SilenceUsage: true,
}

func init() {
	GenerateCmd.Flags().StringVar(&generateFile, "file", "", "Path to schema file, .yaml, .toml or .json (required)")
	GenerateCmd.Flags().StringVar(&generatePackage, "package", "models", "Package name of the generated file")
	GenerateCmd.Flags().StringVar(&generateOut, "out", "", "Output file (stdout when empty)")

	GenerateCmd.MarkFlagRequired("file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := schema.Load(generateFile)
	if err != nil {
		return err
	}

	if generateOut != "" {
		if err := codegen.WriteFile(generateOut, s, generatePackage); err != nil {
			return fmt.Errorf("failed to generate %s: %w", generateOut, err)
		}
		return nil
	}

	src, err := codegen.Generate(s, generatePackage)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(src)
	return err
}
