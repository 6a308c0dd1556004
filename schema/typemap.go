package schema

// TypeMapping binds a generic type to its PostgreSQL rendering.
type TypeMapping struct {
	Generic GenericType
	// Create is the column type used in CREATE TABLE. Empty when the type
	// is parameterised (see CreateParam).
	Create string
	// CreateParam is the parameterised type name, e.g. varchar(n).
	CreateParam string
	// InfoSchema is the data_type reported by information_schema.columns.
	InfoSchema string
	// GoType is the host representation used by generated code.
	GoType string
}

// TypeMappings is the generic to concrete type table. Every generic type has
// exactly one entry.
var TypeMappings = []TypeMapping{
	{Generic: Int64, Create: "bigint", InfoSchema: "bigint", GoType: "int64"},
	{Generic: UInt64, Create: "bigint", InfoSchema: "bigint", GoType: "int64"},
	{Generic: Boolean, Create: "boolean", InfoSchema: "boolean", GoType: "bool"},
	{Generic: Ipv4, Create: "inet", InfoSchema: "inet", GoType: "string"},
	{Generic: String, CreateParam: "varchar", InfoSchema: "character varying", GoType: "string"},
	{Generic: Int32, Create: "integer", InfoSchema: "integer", GoType: "int32"},
	{Generic: Int16, Create: "smallint", InfoSchema: "smallint", GoType: "int16"},
	{Generic: UInt32, Create: "integer", InfoSchema: "integer", GoType: "int64"},
	{Generic: UInt16, Create: "smallint", InfoSchema: "smallint", GoType: "int32"},
	{Generic: TimestampS, Create: "timestamp default current_timestamp", InfoSchema: "timestamp without time zone", GoType: "time.Time"},
	{Generic: Int8, Create: "smallint", InfoSchema: "smallint", GoType: "int16"},
	{Generic: UInt8, Create: "smallint", InfoSchema: "smallint", GoType: "int16"},
	{Generic: Decimal, Create: "numeric", InfoSchema: "numeric", GoType: "decimal.Decimal"},
	{Generic: Date, Create: "date", InfoSchema: "date", GoType: "time.Time"},
	{Generic: TimestampMs, Create: "bigint", InfoSchema: "bigint", GoType: "int64"},
}

var (
	mappingsByGeneric    = make(map[GenericType]TypeMapping, len(TypeMappings))
	mappingsByInfoSchema = make(map[string][]TypeMapping)
)

func init() {
	for _, m := range TypeMappings {
		mappingsByGeneric[m.Generic] = m
		mappingsByInfoSchema[m.InfoSchema] = append(mappingsByInfoSchema[m.InfoSchema], m)
	}
}

// MappingFor returns the type mapping of a generic type.
func MappingFor(t GenericType) (TypeMapping, bool) {
	m, ok := mappingsByGeneric[t]
	return m, ok
}

// MappingsForInfoSchema returns all generic types compatible with a
// concrete information_schema data type.
func MappingsForInfoSchema(dataType string) []TypeMapping {
	return mappingsByInfoSchema[dataType]
}

// ConstraintMapping binds a constraint to its DDL fragment.
type ConstraintMapping struct {
	Generic Constraint
	Create  string
	// CreateParam marks constraints that need an argument, e.g. CHECK (expr).
	CreateParam string
}

// ConstraintMappings lists constraints with a column-level DDL form.
var ConstraintMappings = map[Constraint]ConstraintMapping{
	Check:      {Generic: Check, CreateParam: "CHECK"},
	NotNull:    {Generic: NotNull, Create: "NOT NULL"},
	PrimaryKey: {Generic: PrimaryKey, Create: "PRIMARY KEY"},
	Unique:     {Generic: Unique, Create: "UNIQUE"},
}

const automaticTimestamp = "timestamp default current_timestamp"

// Automatics holds the DDL used for columns carrying the Automatic constraint.
var Automatics = map[GenericType]string{
	Int32:      "serial PRIMARY KEY",
	Int64:      "bigserial PRIMARY KEY",
	TimestampS: automaticTimestamp,
	UInt32:     "serial PRIMARY KEY",
	UInt64:     "bigserial PRIMARY KEY",
}

// AppOnlyConstraints never render into DDL.
var AppOnlyConstraints = map[Constraint]bool{
	Automatic:       true,
	DbModifyOnly:    true,
	DbInternal:      true,
	EncryptAppLayer: true,
	EncryptDbLayer:  true,
}
