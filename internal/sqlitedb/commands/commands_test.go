package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsqlite/sqlitedb/internal/db"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommands(t *testing.T) (*Commands, *bytes.Buffer, string) {
	t.Helper()

	dir := t.TempDir()
	database, err := db.Open(db.Config{
		Logger:    log.NewDiscardLogger(),
		Directory: dir,
	}, "cli.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	var buf bytes.Buffer
	cmds := New(&buf, database, log.NewDiscardLogger())
	cmds.Progress = false

	return cmds, &buf, dir
}

func TestImportAndInspect(t *testing.T) {
	ctx := context.Background()
	cmds, buf, dir := newTestCommands(t)

	csvPath := filepath.Join(dir, "some data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Name,Age\nana,30\nbob,41\n"), 0644))

	require.NoError(t, cmds.Import(ctx, csvPath))
	assert.Contains(t, buf.String(), "some_data")

	buf.Reset()
	require.NoError(t, cmds.Tables(ctx))
	assert.Contains(t, buf.String(), "some_data")
	assert.Contains(t, buf.String(), "1 tables")

	buf.Reset()
	require.NoError(t, cmds.Columns(ctx, "some_data"))
	assert.Contains(t, buf.String(), "name")
	assert.Contains(t, buf.String(), "TEXT")

	buf.Reset()
	require.NoError(t, cmds.Count(ctx, "some_data"))
	assert.Contains(t, buf.String(), "2")

	assert.Error(t, cmds.Columns(ctx, "missing"))
	assert.Error(t, cmds.Import(ctx, filepath.Join(dir, "missing.csv")))
}

func TestImportWithProgress(t *testing.T) {
	ctx := context.Background()
	cmds, buf, dir := newTestCommands(t)
	cmds.Progress = true

	files := []string{}
	for _, name := range []string{"a.csv", "b.csv"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x\n1\n"), 0644))
		files = append(files, p)
	}

	require.NoError(t, cmds.Import(ctx, files...))
	assert.Contains(t, buf.String(), "a.csv")
	assert.Contains(t, buf.String(), "b.csv")
}

func TestQueryExecAndRun(t *testing.T) {
	ctx := context.Background()
	cmds, buf, _ := newTestCommands(t)

	require.NoError(t, cmds.Run(ctx, "CREATE TABLE t (id INTEGER, name TEXT)"))

	buf.Reset()
	require.NoError(t, cmds.Exec(ctx, "INSERT INTO t VALUES (?, ?)", 1, "ana"))
	assert.Contains(t, buf.String(), "Rows Affected")

	buf.Reset()
	cmds.Output = db.OutputMap
	require.NoError(t, cmds.Run(ctx, "SELECT * FROM t WHERE id = ?", StringParams([]string{"1"})...))
	assert.Contains(t, buf.String(), "ana")
	assert.Contains(t, buf.String(), "1 rows as map")

	assert.Error(t, cmds.Query(ctx, "SELECT * FROM nope"))
	assert.Error(t, cmds.Run(ctx, "NOT SQL"))
}

func TestRunPrintsRowsOfWritingStatements(t *testing.T) {
	ctx := context.Background()
	cmds, buf, _ := newTestCommands(t)
	cmds.Output = db.OutputTuple

	require.NoError(t, cmds.Run(ctx, "PRAGMA journal_mode"))
	assert.Contains(t, buf.String(), "wal")
	assert.NotContains(t, buf.String(), "Rows Affected")

	require.NoError(t, cmds.Run(ctx, "CREATE TABLE t (id INTEGER)"))
	buf.Reset()
	require.NoError(t, cmds.Run(ctx, "INSERT INTO t (id) VALUES (7) RETURNING id"))
	assert.Contains(t, buf.String(), "7")
	assert.Contains(t, buf.String(), "1 rows as tuple")
}

func TestDatabases(t *testing.T) {
	cmds, buf, dir := newTestCommands(t)

	require.NoError(t, cmds.Databases(dir))
	assert.Contains(t, buf.String(), "cli")

	assert.Error(t, PrintDatabases(buf, filepath.Join(dir, "missing")))
}

func TestStringParams(t *testing.T) {
	assert.Equal(t, []any{"1", "a"}, StringParams([]string{"1", "a"}))
	assert.Empty(t, StringParams(nil))
}
