package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewals-authorization/config"
)

func TestRebind(t *testing.T) {
	query := `SELECT id FROM documents WHERE doc_type = ? AND note = 'a?b' LIMIT ?`

	assert.Equal(t,
		`SELECT id FROM documents WHERE doc_type = $1 AND note = 'a?b' LIMIT $2`,
		Rebind(config.DriverPostgres, query))
	assert.Equal(t, query, Rebind(config.DriverSQLite, query))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongo", "whatever")
	assert.Error(t, err)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), config.DriverPostgres, "")
	assert.Error(t, err)
}

func TestMigrate_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "renewals.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn, config.DriverSQLite))
	require.NoError(t, Migrate(ctx, conn, config.DriverSQLite))

	var count int
	err = conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
