package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/cmd/util"
	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/validate"
)

// ErrDrift is returned with --fail-on-drift when validations remain.
var ErrDrift = errors.New("database does not match the schema")

var (
	conn                util.ConnectionFlags
	validateFile        string
	validateFix         bool
	validateAdditive    bool
	validateSetNotNull  bool
	validateDropNotNull bool
	validateOutput      string
	validateIgnoreFile  string
	reportUnknownTables bool
	failOnDrift         bool
	validateNoColor     bool
)

var ValidateCmd = &cobra.Command{
	Use:          "validate",
	Short:        "Compare a database schema with a schema file",
	Long:         "Compare the tables and columns of a database schema (specified by --schema, defaults to 'public') with the declared schema (from --file). With --fix, missing tables and columns are created and nullability is adjusted as allowed by the fix flags.",
	RunE:         runValidate,
	SilenceUsage: true,
	PreRunE:      util.PreRunEWithEnvVars(&conn),
}

func init() {
	conn.Register(ValidateCmd)

	ValidateCmd.Flags().StringVar(&validateFile, "file", "", "Path to schema file, .yaml, .toml or .json (required)")

	// Fix flags
	ValidateCmd.Flags().BoolVar(&validateFix, "fix", false, "Apply the fixes allowed by the fix flags")
	ValidateCmd.Flags().BoolVar(&validateAdditive, "additive", validate.DefaultFixControls.Additive, "Create missing tables and columns")
	ValidateCmd.Flags().BoolVar(&validateSetNotNull, "set-not-null", validate.DefaultFixControls.CodeToDbNotNull, "Set NOT NULL on columns declared NOT NULL")
	ValidateCmd.Flags().BoolVar(&validateDropNotNull, "drop-not-null", validate.DefaultFixControls.CodeToDbNull, "Drop NOT NULL from columns declared nullable")

	// Output flags
	ValidateCmd.Flags().StringVar(&validateOutput, "output", "human", "Output format: human or json")
	ValidateCmd.Flags().BoolVar(&validateNoColor, "no-color", false, "Disable colored output")

	ValidateCmd.Flags().StringVar(&validateIgnoreFile, "ignore-file", "", "Path to ignore file (defaults to .sqltablesignore)")
	ValidateCmd.Flags().BoolVar(&reportUnknownTables, "report-unknown-tables", false, "Report database tables the schema file does not declare")
	ValidateCmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "Exit with an error when validations remain")

	ValidateCmd.MarkFlagRequired("file")
}

// FixControls returns the fix controls selected by the flags.
func FixControls() validate.FixControls {
	return validate.FixControls{
		Additive:        validateAdditive,
		CodeToDbNotNull: validateSetNotNull,
		CodeToDbNull:    validateDropNotNull,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateOutput != "human" && validateOutput != "json" {
		return fmt.Errorf("unknown output format: %s", validateOutput)
	}

	s, err := schema.Load(validateFile)
	if err != nil {
		return err
	}
	opts, err := conn.Options(validateIgnoreFile, reportUnknownTables)
	if err != nil {
		return fmt.Errorf("failed to load ignore file: %w", err)
	}

	ctx := context.Background()
	pool, err := conn.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	var report *validate.Report
	if validateFix {
		plan, err := validate.PlanDatabase(ctx, pool, s, opts, FixControls())
		if err != nil {
			return err
		}
		if err := validate.Apply(ctx, pool, plan); err != nil {
			return err
		}
		report, err = validate.NewReport(s, plan.Residual, plan)
		if err != nil {
			return err
		}
	} else {
		validations, err := validate.Validate(ctx, pool, s, opts)
		if err != nil {
			return err
		}
		report, err = validate.NewReport(s, validations, nil)
		if err != nil {
			return err
		}
	}

	if err := writeReport(cmd, report); err != nil {
		return err
	}
	if failOnDrift && report.HasDrift() {
		return fmt.Errorf("%w: %d validation(s), %d relation problem(s)", ErrDrift, len(report.Validations), len(report.Relations))
	}
	return nil
}

func writeReport(cmd *cobra.Command, report *validate.Report) error {
	out := cmd.OutOrStdout()
	if validateOutput == "json" {
		content, err := report.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
		fmt.Fprintln(out, content)
		return nil
	}
	fmt.Fprint(out, report.HumanColored(!validateNoColor))
	return nil
}
