//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/autoscheduler/autoscheduler/internal/platform/postgres"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
)

// Open connects to the test database and applies the migrations. The test
// is skipped when no database is configured and the connection is closed
// when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	if ShouldSkipDatabaseTest() {
		t.Skip(DatabaseURLEnv + " not set - skipping integration test")
	}

	db, err := sql.Open("pgx", DatabaseURL())
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "pinging test database")
	require.NoError(t, postgres.Migrate(ctx, db, nil), "migrating test database")
	return db
}
