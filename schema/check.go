package schema

import (
	"errors"
	"fmt"
)

// UnsupportedAutomaticError is returned for an Automatic column whose type
// has no auto-generated DDL form.
type UnsupportedAutomaticError struct {
	Column string
	Type   GenericType
}

func (e *UnsupportedAutomaticError) Error() string {
	return fmt.Sprintf("column %s: unsupported automatic type %s", e.Column, e.Type)
}

// Verify reports the fatal problems of a strict schema: invalid identifiers,
// unknown types or constraints, Automatic columns without a DDL form,
// composite constraints naming missing columns, unresolved references and
// cyclic dependencies. Relation type mismatches are not fatal; see
// RelationProblems.
func Verify(s Schema) error {
	var errs []error
	for _, name := range s.TableNames() {
		if !ValidIdentifier(name) {
			errs = append(errs, fmt.Errorf("invalid table name %q", name))
		}
		table := s[name]
		for _, colName := range table.ColumnNames() {
			qualified := name + "." + colName
			col := table.Columns[colName]
			if !ValidIdentifier(colName) {
				errs = append(errs, fmt.Errorf("invalid column name %q", qualified))
			}
			if !col.Type.Valid() {
				errs = append(errs, fmt.Errorf("column %s: unknown type %q", qualified, col.Type))
				continue
			}
			for _, c := range col.Constraints {
				if !c.Valid() {
					errs = append(errs, fmt.Errorf("column %s: unknown constraint %q", qualified, c))
				}
			}
			if col.Has(Automatic) {
				if _, ok := Automatics[col.Type]; !ok {
					errs = append(errs, &UnsupportedAutomaticError{Column: qualified, Type: col.Type})
				}
			}
		}
		errs = append(errs, checkComposite(name, table)...)
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	_, err := OrderDependencies(s)
	return err
}

func checkComposite(name string, table Table) []error {
	var errs []error
	missing := func(kind string, cols []string) {
		for _, c := range cols {
			if _, ok := table.Columns[c]; !ok {
				errs = append(errs, fmt.Errorf("table %s: %s names unknown column %q", name, kind, c))
			}
		}
	}
	for _, group := range table.Unique {
		missing("unique", group)
	}
	missing("primaryKey", table.PrimaryKey)
	for _, fk := range table.ForeignKey {
		missing("foreignKey", fk.Columns)
	}
	return errs
}
