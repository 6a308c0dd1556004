package executor

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgschema/sqltables/internal/logger"
)

const (
	DefaultHost            = "localhost"
	DefaultPort            = 5432
	DefaultMaxConns        = 30
	DefaultMaxConnIdleTime = 30 * time.Second
	DefaultConnectTimeout  = 2 * time.Second
)

// ConnectionConfig holds database connection parameters
type ConnectionConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	ApplicationName string

	MaxConns        int
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// withDefaults fills unset fields.
func (c ConnectionConfig) withDefaults() ConnectionConfig {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = DefaultMaxConnIdleTime
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	return c
}

// dsnValue quotes a keyword/value connection string value when needed.
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// BuildDSN constructs a PostgreSQL connection string from connection parameters
func (c ConnectionConfig) BuildDSN() string {
	c = c.withDefaults()

	var parts []string
	parts = append(parts, fmt.Sprintf("host=%s", dsnValue(c.Host)))
	parts = append(parts, fmt.Sprintf("port=%d", c.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", dsnValue(c.Database)))
	parts = append(parts, fmt.Sprintf("user=%s", dsnValue(c.User)))

	if c.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", dsnValue(c.Password)))
	}
	if c.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", dsnValue(c.SSLMode)))
	}
	if c.ApplicationName != "" {
		parts = append(parts, fmt.Sprintf("application_name=%s", dsnValue(c.ApplicationName)))
	}
	parts = append(parts, fmt.Sprintf("connect_timeout=%d", max(1, int(c.ConnectTimeout/time.Second))))

	return strings.Join(parts, " ")
}

// Open connects through database/sql with the pgx driver and pings the
// server.
func Open(config ConnectionConfig) (*DB, error) {
	log := logger.Get()
	config = config.withDefaults()

	log.Debug("Attempting database connection",
		"host", config.Host,
		"port", config.Port,
		"database", config.Database,
		"user", config.User,
		"sslmode", config.SSLMode,
		"application_name", config.ApplicationName,
	)

	conn, err := sql.Open("pgx", config.BuildDSN())
	if err != nil {
		log.Debug("Database connection failed", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	conn.SetMaxOpenConns(config.MaxConns)
	conn.SetConnMaxIdleTime(config.MaxConnIdleTime)

	if err := conn.Ping(); err != nil {
		log.Debug("Database ping failed", "error", err)
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("Database connection established successfully")
	return OpenDB(conn), nil
}
