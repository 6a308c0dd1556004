// Package testutil provides shared test utilities for sqltables
package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pgschema/sqltables/executor"
)

var suppressedLogger = log.New(io.Discard, "", 0)

// getPostgresVersion returns the PostgreSQL version to use for testing.
// It reads from the SQLTABLES_POSTGRES_VERSION environment variable,
// defaulting to "17" if not set.
func getPostgresVersion() string {
	if version := os.Getenv("SQLTABLES_POSTGRES_VERSION"); version != "" {
		return version
	}
	return "17"
}

// ContainerInfo holds PostgreSQL container connection details
type ContainerInfo struct {
	Container testcontainers.Container
	Config    executor.ConnectionConfig
	DSN       string
	Pool      *executor.Pool
}

// SetupPostgresContainer starts a PostgreSQL container and opens a pool on
// it. The test is skipped under -short. The container is terminated when
// the test finishes.
func SetupPostgresContainer(ctx context.Context, t *testing.T) *ContainerInfo {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	return SetupPostgresContainerWithDB(ctx, t, "testdb", "testuser", "testpass")
}

// SetupPostgresContainerWithDB creates a new PostgreSQL test container with custom database settings
func SetupPostgresContainerWithDB(ctx context.Context, t *testing.T, database, username, password string) *ContainerInfo {
	t.Helper()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:"+getPostgresVersion()+"-alpine",
		postgres.WithDatabase(database),
		postgres.WithUsername(username),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		testcontainers.WithLogger(suppressedLogger),
	)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	ci := &ContainerInfo{Container: postgresContainer}
	t.Cleanup(func() { ci.Terminate(context.Background(), t) })

	ci.DSN, err = postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	containerHost, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	containerPort, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	ci.Config = executor.ConnectionConfig{
		Host:            containerHost,
		Port:            containerPort.Int(),
		Database:        database,
		User:            username,
		Password:        password,
		SSLMode:         "disable",
		ApplicationName: "sqltables-test",
		ConnectTimeout:  10 * time.Second,
	}

	ci.Pool, err = executor.New(ctx, ci.Config)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	return ci
}

// Terminate closes the pool and removes the container
func (ci *ContainerInfo) Terminate(ctx context.Context, t *testing.T) {
	if ci.Pool != nil {
		ci.Pool.Close()
		ci.Pool = nil
	}
	if ci.Container == nil {
		return
	}
	if err := ci.Container.Terminate(ctx); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
	ci.Container = nil
}
