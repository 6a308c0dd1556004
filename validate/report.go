package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgschema/sqltables/internal/color"
	"github.com/pgschema/sqltables/internal/fingerprint"
	"github.com/pgschema/sqltables/schema"
)

// Report is the printable outcome of a validation pass.
type Report struct {
	SchemaFingerprint   *fingerprint.SchemaFingerprint `json:"schemaFingerprint"`
	DatabaseFingerprint *fingerprint.SchemaFingerprint `json:"databaseFingerprint,omitempty"`
	Validations         []Validation                   `json:"validations"`
	Relations           []string                       `json:"relations,omitempty"`
	Fixes               []Fix                          `json:"fixes,omitempty"`
}

// NewReport builds a report for s. plan may be nil.
func NewReport(s schema.Schema, validations []Validation, plan *FixPlan) (*Report, error) {
	fp, err := fingerprint.ComputeFingerprint(s)
	if err != nil {
		return nil, err
	}
	r := &Report{
		SchemaFingerprint: fp,
		Validations:       validations,
		Relations:         schema.RelationProblems(s),
	}
	if r.Validations == nil {
		r.Validations = []Validation{}
	}
	if plan != nil {
		r.DatabaseFingerprint = plan.Fingerprint
		r.Fixes = plan.Fixes
	}
	return r, nil
}

// HasDrift reports whether any validation or relation problem is left.
func (r *Report) HasDrift() bool {
	return len(r.Validations) > 0 || len(r.Relations) > 0
}

// ToJSON returns the report as indented JSON.
func (r *Report) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

// HumanColored renders the report for a terminal.
func (r *Report) HumanColored(enableColor bool) string {
	c := color.New(enableColor)
	var b strings.Builder

	fmt.Fprintln(&b, r.SchemaFingerprint.String())

	if len(r.Fixes) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, c.Bold("Fixes:"))
		for _, f := range r.Fixes {
			fmt.Fprintf(&b, "  %s %s\n", c.ReasonSymbol(string(f.Validation.Reason)), f.SQL)
		}
	}

	if !r.HasDrift() {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "No drift detected.")
		return b.String()
	}

	if len(r.Relations) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, c.Bold("Relations:"))
		for _, p := range r.Relations {
			fmt.Fprintf(&b, "  %s %s\n", c.ReasonSymbol(string(TypeMismatch)), p)
		}
	}
	if len(r.Validations) == 0 {
		return b.String()
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, c.Bold("Validations:"))
	var missing, mismatched, unknown int
	for _, v := range r.Validations {
		fmt.Fprintln(&b, c.FormatValidationLine(string(v.Kind), v.Name, string(v.Reason), v.Extra))
		switch v.Reason {
		case NotInDb:
			missing++
		case TypeMismatch, Constraint:
			mismatched++
		case NotInCode:
			unknown++
		}
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, c.FormatSummaryLine(missing, mismatched, unknown))
	return b.String()
}
