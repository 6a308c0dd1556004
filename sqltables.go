// Package sqltables keeps PostgreSQL tables in line with a declared schema
// and gives typed-by-schema access to their rows.
//
// A Client bundles a strictified schema, a connection pool and a crud.Store.
// Validate reports the differences between the schema and the database,
// ValidateAndFix also creates what is missing, and Store runs CRUD
// statements whose values are coerced to the declared column types.
package sqltables

import (
	"context"

	"github.com/pgschema/sqltables/convert"
	"github.com/pgschema/sqltables/crud"
	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/schema"
	"github.com/pgschema/sqltables/validate"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host            string // Database server host (default: "localhost")
	Port            int    // Database server port (default: 5432)
	Database        string // Database name
	User            string // Database user
	Password        string // Database password (optional)
	SSLMode         string // SSL mode (optional)
	Schema          string // Schema to validate (default: "public")
	ApplicationName string // Application name for database connection (default: "sqltables")
}

func (c DatabaseConfig) connection() executor.ConnectionConfig {
	app := c.ApplicationName
	if app == "" {
		app = "sqltables"
	}
	return executor.ConnectionConfig{
		Host:            c.Host,
		Port:            c.Port,
		Database:        c.Database,
		User:            c.User,
		Password:        c.Password,
		SSLMode:         c.SSLMode,
		ApplicationName: app,
	}
}

// Option configures a Client.
type Option func(*Client)

// WithIgnore hides matching tables and columns from validation.
func WithIgnore(f validate.Filter) Option {
	return func(c *Client) { c.opts.Ignore = f }
}

// WithReportUnknownTables makes Validate report live tables the schema does
// not declare.
func WithReportUnknownTables() Option {
	return func(c *Client) { c.opts.ReportUnknownTables = true }
}

// WithConverter replaces the value converter of the store.
func WithConverter(conv convert.Converter) Option {
	return func(c *Client) { c.storeOpts = append(c.storeOpts, crud.WithConverter(conv)) }
}

// Client provides the main interface for sqltables operations.
type Client struct {
	schema    schema.Schema
	querier   executor.Querier
	pool      *executor.Pool
	opts      validate.Options
	storeOpts []crud.Option
	store     *crud.Store
}

// New builds a client on an existing querier, e.g. an *executor.DB. The
// caller keeps ownership of q.
func New(s schema.Schema, q executor.Querier, options ...Option) *Client {
	c := &Client{schema: s, querier: q}
	for _, o := range options {
		o(c)
	}
	c.store = crud.New(s, q, c.storeOpts...)
	return c
}

// Open connects a pool for dbConfig and builds a client on it. The pool is
// pinged once, by executor.New. Close releases it.
func Open(ctx context.Context, dbConfig DatabaseConfig, s schema.Schema, options ...Option) (*Client, error) {
	pool, err := executor.New(ctx, dbConfig.connection())
	if err != nil {
		return nil, err
	}

	c := New(s, pool, options...)
	c.pool = pool
	c.opts.Schema = dbConfig.Schema
	return c, nil
}

// Close releases the pool opened by Open. It does nothing for clients built
// with New.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Schema returns the strictified schema.
func (c *Client) Schema() schema.Schema { return c.schema }

// Store returns the CRUD store.
func (c *Client) Store() *crud.Store { return c.store }

// Table returns the CRUD handle of a declared table.
func (c *Client) Table(name string) (*crud.Table, bool) {
	return c.store.Table(name)
}

// Validate lists the differences between the schema and the database.
func (c *Client) Validate(ctx context.Context) ([]validate.Validation, error) {
	return validate.Validate(ctx, c.querier, c.schema, c.opts)
}

// Plan works out the fixes controls allow without running them.
func (c *Client) Plan(ctx context.Context, controls validate.FixControls) (*validate.FixPlan, error) {
	return validate.PlanDatabase(ctx, c.querier, c.schema, c.opts, controls)
}

// ValidateAndFix applies the fixes controls allow and returns the
// validations left.
func (c *Client) ValidateAndFix(ctx context.Context, controls validate.FixControls) ([]validate.Validation, error) {
	return validate.ValidateAndFix(ctx, c.querier, c.schema, c.opts, controls)
}
