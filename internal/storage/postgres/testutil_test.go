package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL container for testing and applies
// the schema. Returns a cleanup function that must be called after
// tests complete.
func setupTestDB(t *testing.T) (*Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err, "failed to create pool")

	runMigrations(t, ctx, pool)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

// runMigrations replays the schema from internal/storage/migrations.
// The embedded runner there takes this package's Pool, so importing it
// from an in-package test would be an import cycle; the statements are
// inlined instead and must be kept in sync with the SQL files.
func runMigrations(t *testing.T, ctx context.Context, pool *Pool) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS cycle_records (
			cycle            BIGINT PRIMARY KEY,
			started_at_ms    BIGINT NOT NULL,
			duration_ms      BIGINT NOT NULL,
			status           TEXT NOT NULL,
			failure_reason   TEXT NOT NULL DEFAULT '',
			holders_scanned  INTEGER NOT NULL DEFAULT 0,
			eligible_holders INTEGER NOT NULL DEFAULT 0,
			successful_sends INTEGER NOT NULL DEFAULT 0,
			failed_sends     INTEGER NOT NULL DEFAULT 0,
			total_allocated  DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_sent       DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_records_status ON cycle_records (status)`,
		`CREATE TABLE IF NOT EXISTS transfer_records (
			id           BIGSERIAL PRIMARY KEY,
			cycle        BIGINT NOT NULL,
			wallet       TEXT NOT NULL,
			amount       DOUBLE PRECISION NOT NULL,
			percentage   DOUBLE PRECISION NOT NULL,
			status       TEXT NOT NULL,
			signature    TEXT NOT NULL DEFAULT '',
			reason       TEXT NOT NULL DEFAULT '',
			timestamp_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfer_records_cycle ON transfer_records (cycle)`,
		`CREATE INDEX IF NOT EXISTS idx_transfer_records_wallet ON transfer_records (wallet)`,
	}

	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err, "failed to apply schema statement")
	}
}
