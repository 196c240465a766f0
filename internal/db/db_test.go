package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(Config{Directory: dir}, "x.db")
	assert.EqualError(t, err, "logger is required")

	_, err = Open(Config{Logger: log.NewDiscardLogger()}, "x.db")
	assert.EqualError(t, err, "database directory is required")

	_, err = Open(Config{Logger: log.NewDiscardLogger(), Directory: dir}, " ")
	assert.EqualError(t, err, "database name is required")

	_, err = Open(Config{
		Logger:        log.NewDiscardLogger(),
		Directory:     dir,
		DefaultOutput: OutputType{Value: "json"},
	}, "x.db")
	assert.ErrorContains(t, err, "invalid default output type")
}

func TestOpenDefaults(t *testing.T) {
	db := newTestDB(t)
	assert.Equal(t, OutputNamedRow, db.DefaultOutput)
	assert.FileExists(t, db.Path())
}

func TestResolveFilename(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	existing := filepath.Join(other, "existing.db")
	require.NoError(t, os.WriteFile(existing, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "indir.db"), nil, 0644))

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "existing file path is used as is",
			input:    existing,
			expected: existing,
		},
		{
			name:     "existing file inside directory",
			input:    "indir.db",
			expected: filepath.Join(dir, "indir.db"),
		},
		{
			name:     "new bare name goes into directory",
			input:    "new.db",
			expected: filepath.Join(dir, "new.db"),
		},
		{
			name:     "dot slash name goes into directory",
			input:    "./dotted.db",
			expected: filepath.Join(dir, "dotted.db"),
		},
		{
			name:     "trailing slash name goes into directory",
			input:    "slashed.db/",
			expected: filepath.Join(dir, "slashed.db"),
		},
		{
			name:     "new path is used as is",
			input:    filepath.Join(other, "sub", "new.db"),
			expected: filepath.Join(other, "sub", "new.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveFilename(dir, tt.input))
		})
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "nested", "deep", "data.db")

	db, err := Open(Config{Logger: log.NewDiscardLogger(), Directory: dir}, target)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, target, db.Path())
	assert.FileExists(t, target)
}

func TestCloseIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, db.Close())
	assert.NoError(t, db.Close())

	_, err := db.ListTables(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = db.InsertMaps(context.Background(), "t", []map[string]any{{"a": 1}})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestKnownDatabases(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.db", "a.DB", "notes.txt", "c.sqlite"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.db"), 0755))

	names, err := KnownDatabases(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = KnownDatabases(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCreateDSN(t *testing.T) {
	dsn := createDSN("/data/app.db", false)
	assert.Contains(t, dsn, "/data/app.db?")
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_foreign_keys=true")

	dsn = createDSN("/data/app.db", true)
	assert.NotContains(t, dsn, "_journal_mode")
	assert.Contains(t, dsn, "_busy_timeout=5000")
}

func TestOpenWithoutOptimizations(t *testing.T) {
	db, err := Open(Config{
		Logger:               log.NewDiscardLogger(),
		Directory:            t.TempDir(),
		DisableOptimizations: true,
	}, "plain.db")
	require.NoError(t, err)
	defer db.Close()

	res, err := db.Query(context.Background(), "PRAGMA journal_mode", nil, OutputTuple)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"delete"}}, res.Tuples)
}
