package sqltables

import (
	"context"

	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/sqlgen"
	"github.com/pgschema/sqltables/validate"
)

// OpenFile loads the schema file at path and opens a client for it.
func OpenFile(ctx context.Context, dbConfig DatabaseConfig, path string, options ...Option) (*Client, error) {
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return Open(ctx, dbConfig, s, options...)
}

// ValidateFile validates a database against the schema file at path.
func ValidateFile(ctx context.Context, dbConfig DatabaseConfig, path string) ([]validate.Validation, error) {
	c, err := OpenFile(ctx, dbConfig, path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Validate(ctx)
}

// FixFile fixes a database with the default controls and returns the
// validations left.
func FixFile(ctx context.Context, dbConfig DatabaseConfig, path string) ([]validate.Validation, error) {
	c, err := OpenFile(ctx, dbConfig, path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.ValidateAndFix(ctx, validate.DefaultFixControls)
}

// DDL returns the CREATE TABLE statements of the schema file at path in
// dependency order.
func DDL(path string) ([]string, error) {
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return sqlgen.CreateSchema(s)
}
