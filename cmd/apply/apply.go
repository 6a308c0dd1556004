package apply

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lib/pq"
	"github.com/spf13/cobra"

	planCmd "github.com/pgschema/sqltables/cmd/plan"
	"github.com/pgschema/sqltables/cmd/util"
	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/color"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/validate"
)

var (
	conn             util.ConnectionFlags
	applyFile        string
	applyPlan        string
	applyIgnore      string
	applyAutoApprove bool
	applyNoColor     bool
	applyDryRun      bool
	applyLockTimeout string
	applyAdditive    bool
	applySetNotNull  bool
	applyDropNotNull bool
)

var ApplyCmd = &cobra.Command{
	Use:          "apply",
	Short:        "Apply fixes to a database schema",
	Long:         "Fix a database schema (specified by --schema, defaults to 'public') so it matches the declared schema. Either plan from a schema file (--file) or apply a plan produced by 'sqltables plan --output-json' (--plan). A saved plan is only applied if the database has not changed since it was generated.",
	RunE:         runApply,
	SilenceUsage: true,
	PreRunE:      util.PreRunEWithEnvVars(&conn),
}

func init() {
	conn.Register(ApplyCmd)

	ApplyCmd.Flags().StringVar(&applyFile, "file", "", "Path to schema file, .yaml, .toml or .json")
	ApplyCmd.Flags().StringVar(&applyPlan, "plan", "", "Path to a JSON plan file")
	ApplyCmd.Flags().StringVar(&applyIgnore, "ignore-file", "", "Path to ignore file (defaults to .sqltablesignore)")

	ApplyCmd.Flags().BoolVar(&applyAdditive, "additive", validate.DefaultFixControls.Additive, "Create missing tables and columns")
	ApplyCmd.Flags().BoolVar(&applySetNotNull, "set-not-null", validate.DefaultFixControls.CodeToDbNotNull, "Set NOT NULL on columns declared NOT NULL")
	ApplyCmd.Flags().BoolVar(&applyDropNotNull, "drop-not-null", validate.DefaultFixControls.CodeToDbNull, "Drop NOT NULL from columns declared nullable")

	// Apply behavior flags
	ApplyCmd.Flags().BoolVar(&applyAutoApprove, "auto-approve", false, "Apply changes without prompting for approval")
	ApplyCmd.Flags().BoolVar(&applyNoColor, "no-color", false, "Disable colored output")
	ApplyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show plan without applying changes")
	ApplyCmd.Flags().StringVar(&applyLockTimeout, "lock-timeout", "", "Maximum time to wait for database locks (e.g., 30s, 5m, 1h)")

	ApplyCmd.MarkFlagsMutuallyExclusive("file", "plan")
	ApplyCmd.MarkFlagsOneRequired("file", "plan")
}

// ReadPlan decodes a plan written by the plan command.
func ReadPlan(path string) (*validate.FixPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	var plan validate.FixPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}
	return &plan, nil
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	var (
		fixPlan *validate.FixPlan
		err     error
	)
	if applyPlan != "" {
		fixPlan, err = ReadPlan(applyPlan)
	} else {
		fixPlan, err = generate(ctx, out)
	}
	if err != nil {
		return err
	}

	if len(fixPlan.Fixes) == 0 {
		fmt.Fprintln(out, "No changes to apply. Database schema is already up to date.")
		return nil
	}
	if applyPlan != "" {
		printStatements(out, fixPlan)
	}
	if applyDryRun {
		return nil
	}

	if !applyAutoApprove {
		approved, err := confirm(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !approved {
			fmt.Fprintln(out, "Apply cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "\nApplying changes...")

	pool, err := conn.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	opts, err := conn.Options(applyIgnore, false)
	if err != nil {
		return fmt.Errorf("failed to load ignore file: %w", err)
	}
	if err := validate.Verify(ctx, pool, fixPlan, opts); err != nil {
		return fmt.Errorf("refusing to apply plan: %w", err)
	}

	c, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()

	if applyLockTimeout != "" {
		if err := executor.Exec(ctx, c, "SET lock_timeout = "+pq.QuoteLiteral(applyLockTimeout)); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	if err := validate.ApplyAtomic(ctx, c, fixPlan); err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}
	logger.Get().Debug("Applied plan", "fixes", len(fixPlan.Fixes), "residual", len(fixPlan.Residual))

	fmt.Fprintln(out, "Changes applied successfully!")
	return nil
}

// generate plans from the schema file and prints the plan.
func generate(ctx context.Context, out io.Writer) (*validate.FixPlan, error) {
	result, err := planCmd.GeneratePlan(ctx, &planCmd.PlanConfig{
		Conn:       conn,
		File:       applyFile,
		IgnoreFile: applyIgnore,
		Controls: validate.FixControls{
			Additive:        applyAdditive,
			CodeToDbNotNull: applySetNotNull,
			CodeToDbNull:    applyDropNotNull,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(result.Plan.Fixes) > 0 {
		content, err := planCmd.Render(result, "human", !applyNoColor)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(out, content)
	}
	return result.Plan, nil
}

func printStatements(out io.Writer, fixPlan *validate.FixPlan) {
	c := color.New(!applyNoColor)
	fmt.Fprintln(out, c.Bold("Fixes:"))
	for _, f := range fixPlan.Fixes {
		fmt.Fprintf(out, "  %s %s\n", c.ReasonSymbol(string(f.Validation.Reason)), f.SQL)
	}
}

func confirm(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "\nDo you want to apply these changes? (yes/no): ")
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}
