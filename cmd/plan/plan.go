package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/cmd/util"
	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/validate"
)

var (
	conn          util.ConnectionFlags
	planFile      string
	planIgnore    string
	planAdditive  bool
	planSetNull   bool
	planDropNull  bool
	outputHuman   string
	outputJSON    string
	outputSQL     string
	planNoColor   bool
	reportUnknown bool
)

var PlanCmd = &cobra.Command{
	Use:          "plan",
	Short:        "Generate the fix plan for a database schema",
	Long:         "Compare a database schema (specified by --schema, defaults to 'public') with the declared schema (from --file) and print the statements that would fix it, without executing them. The JSON output can be applied later with 'sqltables apply --plan'.",
	RunE:         runPlan,
	SilenceUsage: true,
	PreRunE:      util.PreRunEWithEnvVars(&conn),
}

func init() {
	conn.Register(PlanCmd)

	PlanCmd.Flags().StringVar(&planFile, "file", "", "Path to schema file, .yaml, .toml or .json (required)")
	PlanCmd.Flags().StringVar(&planIgnore, "ignore-file", "", "Path to ignore file (defaults to .sqltablesignore)")
	PlanCmd.Flags().BoolVar(&reportUnknown, "report-unknown-tables", false, "Report database tables the schema file does not declare")

	PlanCmd.Flags().BoolVar(&planAdditive, "additive", validate.DefaultFixControls.Additive, "Create missing tables and columns")
	PlanCmd.Flags().BoolVar(&planSetNull, "set-not-null", validate.DefaultFixControls.CodeToDbNotNull, "Set NOT NULL on columns declared NOT NULL")
	PlanCmd.Flags().BoolVar(&planDropNull, "drop-not-null", validate.DefaultFixControls.CodeToDbNull, "Drop NOT NULL from columns declared nullable")

	// Output flags
	PlanCmd.Flags().StringVar(&outputHuman, "output-human", "", "Output human-readable format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputJSON, "output-json", "", "Output JSON format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputSQL, "output-sql", "", "Output SQL format to stdout or file path")
	PlanCmd.Flags().BoolVar(&planNoColor, "no-color", false, "Disable colored output")

	PlanCmd.MarkFlagRequired("file")
}

// PlanConfig holds everything needed to build a fix plan.
type PlanConfig struct {
	Conn                util.ConnectionFlags
	File                string
	IgnoreFile          string
	ReportUnknownTables bool
	Controls            validate.FixControls
}

// Result is a plan together with the schema it was made for.
type Result struct {
	Schema schema.Schema
	Plan   *validate.FixPlan
}

// Report renders the plan as a validation report.
func (r *Result) Report() (*validate.Report, error) {
	return validate.NewReport(r.Schema, r.Plan.Residual, r.Plan)
}

// GeneratePlan loads the schema file, inspects the database and plans the
// fixes. Nothing is executed.
func GeneratePlan(ctx context.Context, config *PlanConfig) (*Result, error) {
	s, err := schema.Load(config.File)
	if err != nil {
		return nil, err
	}
	opts, err := config.Conn.Options(config.IgnoreFile, config.ReportUnknownTables)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore file: %w", err)
	}

	pool, err := config.Conn.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	fixPlan, err := validate.PlanDatabase(ctx, pool, s, opts, config.Controls)
	if err != nil {
		return nil, err
	}
	return &Result{Schema: s, Plan: fixPlan}, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	outputs, err := determineOutputs()
	if err != nil {
		return err
	}

	config := &PlanConfig{
		Conn:                conn,
		File:                planFile,
		IgnoreFile:          planIgnore,
		ReportUnknownTables: reportUnknown,
		Controls: validate.FixControls{
			Additive:        planAdditive,
			CodeToDbNotNull: planSetNull,
			CodeToDbNull:    planDropNull,
		},
	}

	result, err := GeneratePlan(context.Background(), config)
	if err != nil {
		return err
	}

	for _, output := range outputs {
		if err := processOutput(cmd.OutOrStdout(), result, output); err != nil {
			return err
		}
	}
	return nil
}

// outputSpec represents a single output specification
type outputSpec struct {
	format string // "human", "json", or "sql"
	target string // "stdout" or file path
}

// determineOutputs parses the output flags and returns the list of outputs to generate
func determineOutputs() ([]outputSpec, error) {
	var outputs []outputSpec
	stdoutCount := 0

	for _, o := range []outputSpec{
		{format: "human", target: outputHuman},
		{format: "json", target: outputJSON},
		{format: "sql", target: outputSQL},
	} {
		if o.target == "" {
			continue
		}
		if o.target == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, o)
	}

	if stdoutCount > 1 {
		return nil, fmt.Errorf("only one output format can use stdout")
	}

	// Default behavior: if no outputs specified, output human to stdout
	if len(outputs) == 0 {
		outputs = append(outputs, outputSpec{format: "human", target: "stdout"})
	}
	return outputs, nil
}

// Render formats a plan result.
func Render(result *Result, format string, useColor bool) (string, error) {
	switch format {
	case "human":
		report, err := result.Report()
		if err != nil {
			return "", err
		}
		return report.HumanColored(useColor), nil
	case "json":
		data, err := json.MarshalIndent(result.Plan, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to generate JSON output: %w", err)
		}
		return string(data) + "\n", nil
	case "sql":
		stmts := result.Plan.Statements()
		if len(stmts) == 0 {
			return "-- No changes detected\n", nil
		}
		return strings.Join(stmts, "\n") + "\n", nil
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// processOutput writes the plan in the specified format to the target destination
func processOutput(stdout io.Writer, result *Result, output outputSpec) error {
	useColor := output.target == "stdout" && !planNoColor
	content, err := Render(result, output.format, useColor)
	if err != nil {
		return err
	}

	if output.target == "stdout" {
		fmt.Fprint(stdout, content)
		return nil
	}
	if err := os.WriteFile(output.target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s output to %s: %w", output.format, output.target, err)
	}
	return nil
}
