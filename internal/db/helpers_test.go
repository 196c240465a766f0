package db

import (
	"testing"

	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Logger:    log.NewDiscardLogger(),
		Directory: t.TempDir(),
	}, "test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
