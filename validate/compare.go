package validate

import (
	"fmt"
	"slices"

	"github.com/pgschema/sqltables/schema"
)

// CompareTypes checks a live column against its declaration. It returns nil
// when the live data type is compatible with the declared generic type and
// nullability agrees.
func CompareTypes(col schema.Column, live LiveColumn) *Validation {
	name := columnName(live.Table, live.Name)

	mappings := schema.MappingsForInfoSchema(live.DataType)
	if len(mappings) == 0 {
		return &Validation{
			Kind:   KindType,
			Name:   name,
			Reason: NotInCode,
			Extra:  "db: " + live.DataType,
		}
	}

	compatible := slices.ContainsFunc(mappings, func(m schema.TypeMapping) bool {
		return m.Generic == col.Type
	})
	if !compatible {
		return &Validation{
			Kind:   KindType,
			Name:   name,
			Reason: TypeMismatch,
			Extra:  fmt.Sprintf("db: %s code: %s", live.DataType, col.Type),
		}
	}

	return CompareNullConstraints(col, live)
}

// CompareNullConstraints reports a Constraint validation when the live
// column's nullability differs from the declaration. PrimaryKey and
// automatic serial columns count as NOT NULL.
func CompareNullConstraints(col schema.Column, live LiveColumn) *Validation {
	notNull := col.NotNull()

	var extra string
	switch {
	case live.Nullable && notNull:
		extra = ExtraNullInDb
	case !live.Nullable && !notNull:
		extra = ExtraNotNullInDb
	default:
		return nil
	}

	return &Validation{
		Kind:   KindType,
		Name:   columnName(live.Table, live.Name),
		Reason: Constraint,
		Extra:  extra,
	}
}
