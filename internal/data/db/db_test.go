package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir(), DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpen_CreatesFileAndTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	database, err := Open(dir, OpenOptions{})
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)

	ctx := context.Background()
	for _, table := range []string{"notifications", "kv_store", "schema_migrations"} {
		_, err := database.Conn().ExecContext(ctx, "SELECT 1 FROM "+table+" LIMIT 0")
		assert.NoError(t, err, "%s should exist", table)
	}
}

func TestMigrateUp_RecordsEveryVersion(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	applied, err := appliedVersions(ctx, database.Conn())
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations))
	for _, m := range migrations {
		assert.True(t, applied[m.Version], "version %d", m.Version)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	database := openTestDB(t)
	assert.NoError(t, migrateUp(context.Background(), database.Conn()))
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	_, err = first.Conn().ExecContext(ctx,
		"INSERT INTO kv_store (key, value, created_at, updated_at) VALUES ('k', 'v', 1, 1)")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	var value string
	require.NoError(t, second.Conn().QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = 'k'").Scan(&value))
	assert.Equal(t, "v", value)
}

func TestWithTx(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	count := func() int {
		var n int
		require.NoError(t, database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&n))
		return n
	}

	boom := errors.New("boom")
	err := database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv_store (key, value, created_at, updated_at) VALUES ('a', 'x', 1, 1)")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, count(), "failed transaction is rolled back")

	err = database.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO kv_store (key, value, created_at, updated_at) VALUES ('a', 'x', 1, 1)")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count())
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		in      string
		version int
		name    string
		wantErr bool
	}{
		{in: "0001_notifications.sql", version: 1, name: "notifications"},
		{in: "0012_kv_store.sql", version: 12, name: "kv_store"},
		{in: "0001_notifications.up.sql", version: 1, name: "notifications.up"},
		{in: "0001.sql", wantErr: true},
		{in: "abcd_name.sql", wantErr: true},
		{in: "0000_zero.sql", wantErr: true},
		{in: "0001_name.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			version, name, err := parseFilename(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
		})
	}
}
