// Package condbtest opens a migrated SQLite database for tests.
package condbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"ems/condb"
	"ems/config"
)

// New returns a fresh database in t.TempDir, closed on cleanup.
func New(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := condb.Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "ems.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, condb.Migrate(context.Background(), db))
	return db
}
