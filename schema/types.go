// Package schema provides the declarative table model used by sqltables:
// generic column types, constraints, the terse and strict schema forms,
// relation checks and dependency ordering.
package schema

// GenericType classifies a column independently of the SQL dialect.
type GenericType string

const (
	Decimal     GenericType = "Decimal"
	Int8        GenericType = "Int8"
	Int16       GenericType = "Int16"
	Int32       GenericType = "Int32"
	Int64       GenericType = "Int64"
	UInt8       GenericType = "UInt8"
	UInt16      GenericType = "UInt16"
	UInt32      GenericType = "UInt32"
	UInt64      GenericType = "UInt64"
	TimestampMs GenericType = "TimestampMs"
	TimestampS  GenericType = "TimestampS"

	Boolean GenericType = "Boolean"
	Date    GenericType = "Date"
	Ipv4    GenericType = "Ipv4"
	String  GenericType = "String"
)

// GenericTypes lists every generic type, numeric types first.
var GenericTypes = []GenericType{
	Decimal, Int8, Int16, Int32, Int64,
	UInt8, UInt16, UInt32, UInt64,
	TimestampMs, TimestampS,
	Boolean, Date, Ipv4, String,
}

var numericTypes = map[GenericType]bool{
	Decimal:     true,
	Int8:        true,
	Int16:       true,
	Int32:       true,
	Int64:       true,
	UInt8:       true,
	UInt16:      true,
	UInt32:      true,
	UInt64:      true,
	TimestampMs: true,
	TimestampS:  true,
}

var nonNumericTypes = map[GenericType]bool{
	Boolean: true,
	Date:    true,
	Ipv4:    true,
	String:  true,
}

// IsNumeric reports whether t is one of the numeric generic types.
func (t GenericType) IsNumeric() bool {
	return numericTypes[t]
}

// Valid reports whether t is a known generic type.
func (t GenericType) Valid() bool {
	return numericTypes[t] || nonNumericTypes[t]
}

func (t GenericType) String() string {
	return string(t)
}

// Constraint marks a column with a database or application level rule.
type Constraint string

const (
	Automatic       Constraint = "Automatic"
	Check           Constraint = "Check"
	DbModifyOnly    Constraint = "DbModifyOnly"
	DbInternal      Constraint = "DbInternal"
	EncryptAppLayer Constraint = "EncryptAppLayer"
	EncryptDbLayer  Constraint = "EncryptDbLayer"
	NotNull         Constraint = "NotNull"
	PrimaryKey      Constraint = "PrimaryKey"
	Unique          Constraint = "Unique"
)

var knownConstraints = map[Constraint]bool{
	Automatic:       true,
	Check:           true,
	DbModifyOnly:    true,
	DbInternal:      true,
	EncryptAppLayer: true,
	EncryptDbLayer:  true,
	NotNull:         true,
	PrimaryKey:      true,
	Unique:          true,
}

// Valid reports whether c is a known constraint.
func (c Constraint) Valid() bool {
	return knownConstraints[c]
}

// HasConstraint reports whether constraints contain c. A primary key
// always satisfies NotNull.
func HasConstraint(constraints []Constraint, c Constraint) bool {
	for _, existing := range constraints {
		if existing == c {
			return true
		}
	}
	if c == NotNull {
		return HasConstraint(constraints, PrimaryKey)
	}
	return false
}

// HasDbOnlyConstraints reports whether the application may not write the column.
func HasDbOnlyConstraints(constraints []Constraint) bool {
	return HasConstraint(constraints, DbModifyOnly) || HasConstraint(constraints, DbInternal)
}

// IsNotNull reports whether a column of type t with the given constraints is
// NOT NULL in the database. Automatic integer columns render as serial
// primary keys and are therefore never nullable.
func IsNotNull(t GenericType, constraints []Constraint) bool {
	if HasConstraint(constraints, NotNull) {
		return true
	}
	if HasConstraint(constraints, Automatic) {
		if ddl, ok := Automatics[t]; ok && ddl != automaticTimestamp {
			return true
		}
	}
	return false
}
