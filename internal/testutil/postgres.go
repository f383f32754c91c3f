// Package testutil starts disposable PostgreSQL instances for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"gestion-produits/internal/config"
	"gestion-produits/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// StartPostgres runs a PostgreSQL container and returns a pool connected to
// it. The container is terminated when the test finishes. Tests calling it are
// skipped in -short mode.
func StartPostgres(t *testing.T, withSchema bool) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping test requiring a PostgreSQL container")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPoolFromConnString(ctx, connStr, config.DatabaseConfig{
		MaxConnections: 10,
		MinConnections: 1,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	if withSchema {
		if _, err := pool.Exec(ctx, database.SchemaDDL); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	return &TestDB{
		Container: container,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Truncate removes all products and resets the identity sequence.
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()

	if _, err := db.Pool.Exec(context.Background(), "TRUNCATE "+database.TableName+" RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to truncate %s: %v", database.TableName, err)
	}
}
