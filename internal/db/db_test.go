package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/nerv/internal/logging"
)

func TestDriverFor(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost/nerv":   DriverPostgres,
		"postgresql://u:p@localhost/nerv": DriverPostgres,
		"data/nerv.sqlite":                DriverSQLite,
		":memory:":                        DriverSQLite,
		"file:test.db?cache=shared":       DriverSQLite,
	}
	for dsn, want := range tests {
		assert.Equal(t, want, DriverFor(dsn), dsn)
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN(":memory:"))
	assert.Equal(t,
		"file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		sqliteDSN("file:x.db?mode=rwc&_pragma=foreign_keys(1)"))
}

func TestConnectCreatesDataDirAndMigrates(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "nerv.sqlite")

	conn, err := Connect(ctx, dsn, PoolOptions{})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn, logging.Discard()))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, conn, logging.Discard()))

	for _, table := range []string{"users", "courses", "assignments", "notes", "goose_db_version"} {
		var n int
		err := conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestConnectEnablesForeignKeys(t *testing.T) {
	ctx := context.Background()
	conn, err := Connect(ctx, ":memory:", PoolOptions{})
	require.NoError(t, err)
	defer conn.Close()

	var enabled int
	require.NoError(t, conn.GetContext(ctx, &enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "", PoolOptions{})
	assert.Error(t, err)
}
