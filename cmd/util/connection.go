package util

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgschema/sqltables/executor"
	"github.com/pgschema/sqltables/internal/ignore"
	"github.com/pgschema/sqltables/internal/logger"
	"github.com/pgschema/sqltables/validate"
)

// ConnectionFlags are the connection and scope flags shared by the
// commands that talk to a database.
type ConnectionFlags struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	Schema          string
	ApplicationName string
}

// Register adds the connection flags to cmd.
func (f *ConnectionFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Host, "host", executor.DefaultHost, "Database server host (env: PGHOST)")
	cmd.Flags().IntVar(&f.Port, "port", executor.DefaultPort, "Database server port (env: PGPORT)")
	cmd.Flags().StringVar(&f.Database, "db", "", "Database name (required) (env: PGDATABASE)")
	cmd.Flags().StringVar(&f.User, "user", "", "Database user name (required) (env: PGUSER)")
	cmd.Flags().StringVar(&f.Password, "password", "", "Database password (optional, can also use PGPASSWORD env var)")
	cmd.Flags().StringVar(&f.SSLMode, "sslmode", "prefer", "SSL mode (env: PGSSLMODE)")
	cmd.Flags().StringVar(&f.Schema, "schema", validate.DefaultSchema, "Schema name")
	cmd.Flags().StringVar(&f.ApplicationName, "application-name", "sqltables", "Application name for database connection (visible in pg_stat_activity) (env: PGAPPNAME)")
}

func (f *ConnectionFlags) applyEnv(cmd *cobra.Command) {
	set := func(flag, env string, dst *string) {
		if v := GetEnvWithDefault(env, ""); v != "" && !cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("db", "PGDATABASE", &f.Database)
	set("user", "PGUSER", &f.User)
	set("host", "PGHOST", &f.Host)
	set("sslmode", "PGSSLMODE", &f.SSLMode)
	set("application-name", "PGAPPNAME", &f.ApplicationName)
	if port := GetEnvIntWithDefault("PGPORT", 0); port != 0 && !cmd.Flags().Changed("port") {
		f.Port = port
	}
}

// Config returns the executor configuration. The password falls back to
// PGPASSWORD.
func (f *ConnectionFlags) Config() executor.ConnectionConfig {
	password := f.Password
	if password == "" {
		password = GetEnvWithDefault("PGPASSWORD", "")
	}
	return executor.ConnectionConfig{
		Host:            f.Host,
		Port:            f.Port,
		Database:        f.Database,
		User:            f.User,
		Password:        password,
		SSLMode:         f.SSLMode,
		ApplicationName: f.ApplicationName,
	}
}

// Connect opens a pool. executor.New pings it before returning.
func (f *ConnectionFlags) Connect(ctx context.Context) (*executor.Pool, error) {
	config := f.Config()
	logger.Get().Debug("Attempting database connection",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database,
		"user", config.User,
		"sslmode", config.SSLMode,
		"application_name", config.ApplicationName,
	)

	pool, err := executor.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Get().Debug("Database connection established successfully")
	return pool, nil
}

// Options builds validation options for the flags. ignoreFile is the path
// of an ignore file; empty means .sqltablesignore in the working directory.
func (f *ConnectionFlags) Options(ignoreFile string, reportUnknown bool) (validate.Options, error) {
	var (
		cfg *ignore.Config
		err error
	)
	if ignoreFile == "" {
		cfg, err = ignore.LoadIgnoreFile()
	} else {
		cfg, err = ignore.LoadIgnoreFileFromPath(ignoreFile)
	}
	if err != nil {
		return validate.Options{}, err
	}

	opts := validate.Options{
		Schema:              f.Schema,
		ReportUnknownTables: reportUnknown,
	}
	if cfg != nil {
		opts.Ignore = cfg
	}
	return opts, nil
}
