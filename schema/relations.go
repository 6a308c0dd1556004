package schema

import (
	"errors"
	"fmt"
)

// RelationError describes one foreign key that does not resolve.
type RelationError struct {
	Table    string
	Column   string
	Relation Relation
	Reason   string
}

func (e *RelationError) Error() string {
	return e.Reason
}

// ValidateRelations checks that every relation and composite foreign key
// points at an existing, type compatible column. All problems are reported
// together, joined by newlines; nil means the schema is consistent.
func ValidateRelations(s Schema) error {
	var errs []error
	for _, tableName := range s.TableNames() {
		table := s[tableName]
		for _, colName := range table.ColumnNames() {
			col := table.Columns[colName]
			if col.Relation == nil {
				continue
			}
			if reason := findRelation(s, *col.Relation, col.Type); reason != "" {
				errs = append(errs, &RelationError{
					Table:    tableName,
					Column:   colName,
					Relation: *col.Relation,
					Reason:   reason,
				})
			}
		}
		for _, fk := range table.ForeignKey {
			errs = append(errs, validateCompositeForeignKey(s, tableName, table, fk)...)
		}
	}
	return errors.Join(errs...)
}

// RelationProblems returns the messages of ValidateRelations, one per
// problem. Loading and validation carry on when it is non-empty.
func RelationProblems(s Schema) []string {
	err := ValidateRelations(s)
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var problems []string
	for _, e := range joined.Unwrap() {
		problems = append(problems, e.Error())
	}
	return problems
}

func findRelation(s Schema, r Relation, t GenericType) string {
	target, ok := s[r.Table]
	if !ok {
		return fmt.Sprintf("Structure %q not found", r.Table)
	}
	col, ok := target.Columns[r.Column]
	if !ok {
		return fmt.Sprintf("Prop %s not found in Structure %s", r.Column, r.Table)
	}
	if col.Type != t {
		return fmt.Sprintf("Prop %s on %s is of type %s but relationship specifies %s",
			r.Column, r.Table, col.Type, t)
	}
	return ""
}

func validateCompositeForeignKey(s Schema, tableName string, table Table, fk CompositeForeignKey) []error {
	var errs []error
	if len(fk.Columns) != len(fk.ForeignColumns) {
		return []error{fmt.Errorf("foreign key on %s: %d columns reference %d columns of %s",
			tableName, len(fk.Columns), len(fk.ForeignColumns), fk.Table)}
	}
	for i, local := range fk.Columns {
		col, ok := table.Columns[local]
		if !ok {
			errs = append(errs, fmt.Errorf("foreign key on %s: prop %s not found", tableName, local))
			continue
		}
		if reason := findRelation(s, Relation{Table: fk.Table, Column: fk.ForeignColumns[i]}, col.Type); reason != "" {
			errs = append(errs, &RelationError{
				Table:    tableName,
				Column:   local,
				Relation: Relation{Table: fk.Table, Column: fk.ForeignColumns[i]},
				Reason:   reason,
			})
		}
	}
	return errs
}
