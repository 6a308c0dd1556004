package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/fingerprint"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/sqlgen"
)

// ErrUnknownValidation is returned when a validation names a table or
// column the schema does not declare.
var ErrUnknownValidation = errors.New("validation does not match the schema")

// FixControls select which validations are fixed.
type FixControls struct {
	// Additive creates missing tables and columns.
	Additive bool `json:"additive"`
	// CodeToDbNotNull sets NOT NULL on columns the code declares NOT NULL
	// but the database allows NULL in.
	CodeToDbNotNull bool `json:"codeToDbNotNull"`
	// CodeToDbNull drops NOT NULL from columns the code declares nullable.
	CodeToDbNull bool `json:"codeToDbNull"`
}

// DefaultFixControls adds missing objects and pushes NOT NULL to the
// database, but never relaxes a NOT NULL.
var DefaultFixControls = FixControls{
	Additive:        true,
	CodeToDbNotNull: true,
	CodeToDbNull:    false,
}

// Fix is one corrective statement.
type Fix struct {
	Validation Validation `json:"validation"`
	SQL        string     `json:"sql"`
}

// FixPlan holds the statements fixing a set of validations and the
// validations left over.
type FixPlan struct {
	Fixes    []Fix        `json:"fixes"`
	Residual []Validation `json:"residual"`
	// Fingerprint of the snapshot the plan was made from. Apply checks it
	// when set.
	Fingerprint *fingerprint.SchemaFingerprint `json:"fingerprint,omitempty"`
}

// Statements returns the SQL of every fix in execution order.
func (p *FixPlan) Statements() []string {
	stmts := make([]string, len(p.Fixes))
	for i, f := range p.Fixes {
		stmts[i] = f.SQL
	}
	return stmts
}

// Plan works out the DDL fixing validations. Missing tables are created in
// dependency order and swallow the column validations of those tables,
// then missing columns are added, then nullability is changed in the
// directions controls allow.
func Plan(s schema.Schema, validations []Validation, controls FixControls) (*FixPlan, error) {
	plan := &FixPlan{}
	remaining := validations

	if controls.Additive {
		var err error
		if remaining, err = plan.addTables(s, remaining); err != nil {
			return nil, err
		}
		if remaining, err = plan.addColumns(s, remaining); err != nil {
			return nil, err
		}
	}

	remaining, err := plan.setNullability(s, remaining, controls)
	if err != nil {
		return nil, err
	}

	plan.Residual = remaining
	return plan, nil
}

func (p *FixPlan) addTables(s schema.Schema, validations []Validation) ([]Validation, error) {
	missing := make(map[string]Validation)
	for _, v := range validations {
		if v.Kind != KindTable || v.Reason != NotInDb {
			continue
		}
		name, _, ok := s.Lookup(v.Name)
		if !ok {
			return nil, fmt.Errorf("%w: table %s", ErrUnknownValidation, v.Name)
		}
		missing[name] = v
	}
	if len(missing) == 0 {
		return validations, nil
	}

	// order the whole schema so dependencies on existing tables resolve
	ordered, err := schema.OrderDependencies(s)
	if err != nil {
		return nil, err
	}
	for _, t := range ordered {
		v, ok := missing[t.Name]
		if !ok {
			continue
		}
		stmt, err := sqlgen.CreateTableFromSchema(t.Name, t.Table)
		if err != nil {
			return nil, err
		}
		p.Fixes = append(p.Fixes, Fix{Validation: v, SQL: stmt})
	}

	created := make(map[string]bool, len(missing))
	for name := range missing {
		created[strings.ToLower(name)] = true
	}

	var rest []Validation
	for _, v := range validations {
		if v.Kind == KindTable && v.Reason == NotInDb {
			continue
		}
		if v.Kind != KindTable && created[strings.ToLower(v.Table())] {
			continue
		}
		rest = append(rest, v)
	}
	return rest, nil
}

func (p *FixPlan) addColumns(s schema.Schema, validations []Validation) ([]Validation, error) {
	var rest []Validation
	for _, v := range validations {
		if v.Kind != KindColumn || v.Reason != NotInDb {
			rest = append(rest, v)
			continue
		}

		stmt, err := addColumn(s, v)
		if err != nil {
			// known fragile path: the validation must resolve to a renderable column
			logger.Get().Error("Failed to resolve column definition", "validation", v.Name, "error", err)
			return nil, fmt.Errorf("fix %s: %w", v.Name, err)
		}
		p.Fixes = append(p.Fixes, Fix{Validation: v, SQL: stmt})
	}
	return rest, nil
}

func addColumn(s schema.Schema, v Validation) (string, error) {
	table, col, err := resolveColumn(s, v)
	if err != nil {
		return "", err
	}
	def, err := sqlgen.ColumnDefinition(v.Column(), col)
	if err != nil {
		return "", err
	}
	return sqlgen.AddColumn(table, def), nil
}

func (p *FixPlan) setNullability(s schema.Schema, validations []Validation, controls FixControls) ([]Validation, error) {
	var rest []Validation
	for _, v := range validations {
		if !nullFixWanted(v, controls) {
			rest = append(rest, v)
			continue
		}

		table, col, err := resolveColumn(s, v)
		if err != nil {
			return nil, fmt.Errorf("fix %s: %w", v.Name, err)
		}
		stmt := sqlgen.DropNotNull(table, v.Column())
		if col.NotNull() {
			stmt = sqlgen.SetNotNull(table, v.Column())
		}
		p.Fixes = append(p.Fixes, Fix{Validation: v, SQL: stmt})
	}
	return rest, nil
}

func nullFixWanted(v Validation, controls FixControls) bool {
	if v.Kind != KindType || v.Reason != Constraint {
		return false
	}
	switch v.Extra {
	case ExtraNullInDb:
		return controls.CodeToDbNotNull
	case ExtraNotNullInDb:
		return controls.CodeToDbNull
	}
	return false
}

func resolveColumn(s schema.Schema, v Validation) (string, schema.Column, error) {
	tableName, table, ok := s.Lookup(v.Table())
	if !ok {
		return "", schema.Column{}, fmt.Errorf("%w: table %s", ErrUnknownValidation, v.Table())
	}
	_, col, ok := table.Lookup(v.Column())
	if !ok {
		return "", schema.Column{}, fmt.Errorf("%w: column %s", ErrUnknownValidation, v.Name)
	}
	return tableName, col, nil
}

// Apply runs the fixes of plan one after another. It stops at the first
// failing statement; earlier statements stay applied.
func Apply(ctx context.Context, q executor.Querier, plan *FixPlan) error {
	for i, fix := range plan.Fixes {
		if err := executor.Exec(ctx, q, fix.SQL); err != nil {
			return fmt.Errorf("fix %d/%d (%s): %w", i+1, len(plan.Fixes), fix.Validation.Name, err)
		}
		logger.Get().Info("Applied fix", "validation", fix.Validation.Name, "sql", fix.SQL)
	}
	return nil
}

// ApplyAtomic runs the fixes of plan inside one transaction, so a failing
// statement leaves the database untouched. q is pinned for the duration
// when it is an executor.Acquirer.
func ApplyAtomic(ctx context.Context, q executor.Querier, plan *FixPlan) error {
	if len(plan.Fixes) == 0 {
		return nil
	}
	if acquirer, ok := q.(executor.Acquirer); ok {
		conn, err := acquirer.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()
		q = conn
	}

	begin, err := sqlgen.Begin(sqlgen.ReadCommitted)
	if err != nil {
		return err
	}
	if err := executor.Exec(ctx, q, begin); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := Apply(ctx, q, plan); err != nil {
		if rbErr := executor.Exec(ctx, q, sqlgen.Rollback()); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := executor.Exec(ctx, q, sqlgen.Commit()); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Verify checks that the database still matches the snapshot plan was
// made from. A plan without fingerprint always verifies.
func Verify(ctx context.Context, q executor.Querier, plan *FixPlan, opts Options) error {
	if plan.Fingerprint == nil {
		return nil
	}
	snap, err := Introspect(ctx, q, opts)
	if err != nil {
		return err
	}
	current, err := snap.Fingerprint()
	if err != nil {
		return err
	}
	return fingerprint.Compare(plan.Fingerprint, current)
}

// PlanDatabase validates the database and plans the fixes, recording the
// snapshot fingerprint in the plan.
func PlanDatabase(ctx context.Context, q executor.Querier, s schema.Schema, opts Options, controls FixControls) (*FixPlan, error) {
	snap, validations, err := Inspect(ctx, q, s, opts)
	if err != nil {
		return nil, err
	}
	plan, err := Plan(s, validations, controls)
	if err != nil {
		return nil, err
	}
	if plan.Fingerprint, err = snap.Fingerprint(); err != nil {
		return nil, err
	}
	return plan, nil
}

// ValidateAndFix validates the database, applies the fixes controls allow
// and returns the validations that were not fixed.
func ValidateAndFix(ctx context.Context, q executor.Querier, s schema.Schema, opts Options, controls FixControls) ([]Validation, error) {
	plan, err := PlanDatabase(ctx, q, s, opts, controls)
	if err != nil {
		return nil, err
	}
	if err := Apply(ctx, q, plan); err != nil {
		return nil, err
	}
	return plan.Residual, nil
}
