// Package testdb provides helpers for integration tests that need a real
// Postgres database. Tests opt in by exporting WOKLEARN_TEST_DB_URL; without
// it they skip instead of failing, so the unit suite stays runnable anywhere.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/woklearn/woklearn-api/internal/platform/postgres"
)

// EnvVarName is the environment variable holding the test database URL.
const EnvVarName = "WOKLEARN_TEST_DB_URL"

// URL returns the test database URL, skipping the test when it is not set.
func URL(t *testing.T) string {
	t.Helper()

	url := os.Getenv(EnvVarName)
	if url == "" {
		t.Skipf("set %s to run database integration tests", EnvVarName)
	}
	return url
}

// Open connects to the test database, applies all migrations and wipes the
// data tables so every test starts from an empty schema. The connection is
// closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", URL(t))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	if err := postgres.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	Reset(t, db)
	return db
}

// Reset truncates every data table. The migration bookkeeping table is left
// alone.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec("TRUNCATE TABLE users, paintings"); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
