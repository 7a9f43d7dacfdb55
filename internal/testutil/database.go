package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"instafeed/internal/database/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseURLEnv names the Postgres database used by repository tests.
// Everything in it is truncated, so point it at a throwaway database.
const DatabaseURLEnv = "INSTAFEED_TEST_DATABASE_URL"

// NewTestDatabase connects to the test database, applies the migrations and
// empties every table. The test is skipped when DatabaseURLEnv is unset.
// The pool is closed when the test completes.
func NewTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}
	if err := migrations.MigrateUp(pool); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE photos, users`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return pool
}
