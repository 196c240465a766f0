package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilders(t *testing.T) {
	query, err := createTableQuery(
		"my table",
		[]string{"id", `we"ird`},
		[]ColumnType{ColumnTypeInteger, ColumnTypeText},
	)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "my table" ("id" INTEGER, "we""ird" TEXT)`, query)

	query, err = insertQuery("t", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "t" ("a", "b", "c") VALUES (?, ?, ?)`, query)

	_, err = insertQuery("", []string{"a"})
	assert.Error(t, err)
}

func TestInsertRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	fields := []string{"id", "score", "name"}
	rows := []Row{}
	for i := 0; i < 25; i++ {
		rows = append(rows, MustNewRow(fields, []any{i, float64(i) / 2, "user"}))
	}

	ok, err := db.InsertRows(ctx, "users", rows, true)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := db.CountRows(ctx, "users")
	require.NoError(t, err)
	assert.EqualValues(t, 25, count)

	columns, err := db.ListColumns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "score", Type: "REAL"},
		{Name: "name", Type: "TEXT"},
	}, columns)

	// Existing table, no create.
	ok, err = db.InsertRows(ctx, "users", rows[:5], false)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err = db.CountRows(ctx, "users")
	require.NoError(t, err)
	assert.EqualValues(t, 30, count)
}

func TestInsertRowsColumnTypes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	fields := []string{"flag", "data", "day", "at", "widened", "nothing"}
	rows := []Row{
		MustNewRow(fields, []any{true, []byte{1, 2}, NewDate(2024, time.May, 1), time.Now(), 1, nil}),
		MustNewRow(fields, []any{false, nil, nil, nil, 2.5, nil}),
	}

	ok, err := db.InsertRows(ctx, "typed", rows, true)
	require.NoError(t, err)
	assert.True(t, ok)

	columns, err := db.ListColumns(ctx, "typed")
	require.NoError(t, err)

	types := map[string]string{}
	for _, c := range columns {
		types[c.Name] = c.Type
	}
	assert.Equal(t, map[string]string{
		"flag":    "INTEGER",
		"data":    "BLOB",
		"day":     "DATE",
		"at":      "TIMESTAMP",
		"widened": "REAL",
		"nothing": "TEXT",
	}, types)
}

func TestInsertRowsWithoutCreateFails(t *testing.T) {
	db := newTestDB(t)

	rows := []Row{MustNewRow([]string{"a"}, []any{1})}
	ok, err := db.InsertRows(context.Background(), "missing", rows, false)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestInsertRowsInvalidBatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.InsertRows(ctx, "t", nil, true)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = db.InsertRows(ctx, "t", []Row{MustNewRow([]string{}, []any{})}, true)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = db.InsertRows(ctx, "t", []Row{
		MustNewRow([]string{"a", "b"}, []any{1, 2}),
		MustNewRow([]string{"a", "c"}, []any{1, 3}),
	}, true)
	assert.ErrorIs(t, err, ErrMismatchedFields)

	_, err = db.InsertRows(ctx, "t", []Row{
		MustNewRow([]string{"a", "b"}, []any{1, 2}),
		MustNewRow([]string{"a"}, []any{1}),
	}, true)
	assert.ErrorIs(t, err, ErrMismatchedFields)

	tables, err := db.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestInsertRowsSameFieldsInAnyOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ok, err := db.InsertRows(ctx, "t", []Row{
		MustNewRow([]string{"a", "b"}, []any{1, "x"}),
		MustNewRow([]string{"b", "a"}, []any{"y", 2}),
	}, true)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := db.Query(ctx, `SELECT a, b FROM t ORDER BY a`, nil, OutputTuple)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(1), "x"},
		{int64(2), "y"},
	}, res.Tuples)
}

func TestInsertRowsCountMismatch(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Execute(ctx, `CREATE TABLE "t" ("a" INTEGER)`)
	require.NoError(t, err)
	_, err = db.Execute(ctx, `CREATE TRIGGER skip_two BEFORE INSERT ON "t"
		WHEN NEW.a = 2 BEGIN SELECT RAISE(IGNORE); END`)
	require.NoError(t, err)

	ok, err := db.InsertRows(ctx, "t", []Row{
		MustNewRow([]string{"a"}, []any{1}),
		MustNewRow([]string{"a"}, []any{2}),
	}, false)
	assert.NoError(t, err)
	assert.False(t, ok)

	count, err := db.CountRows(ctx, "t")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestInsertRowsRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.Execute(ctx, `CREATE TABLE "strict" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	rows := []Row{
		MustNewRow([]string{"id"}, []any{1}),
		MustNewRow([]string{"id"}, []any{1}),
	}
	_, err = db.InsertRows(ctx, "strict", rows, false)
	assert.Error(t, err)

	count, err := db.CountRows(ctx, "strict")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	rows := []Row{MustNewRow([]string{"a", "b"}, []any{1, "x"})}
	require.NoError(t, db.CreateTable(ctx, "t", rows))
	require.NoError(t, db.CreateTable(ctx, "t", rows))

	count, err := db.CountRows(ctx, "t")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertMaps(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ok, err := db.InsertMaps(ctx, "people", []map[string]any{
		{"name": "ana", "age": 30},
		{"name": "bob", "city": "lima"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := db.GetAllRows(ctx, "people", OutputMap)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"age": int64(30), "city": nil, "name": "ana"},
		{"age": nil, "city": "lima", "name": "bob"},
	}, res.Maps)
}

func TestInsertStructs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	ok, err := db.InsertStructs(ctx, "users", []testUser{
		{ID: 1, Name: "ana", Score: 2.5},
		{ID: 2, Name: "bob"},
	}, true)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := db.Query(ctx, `SELECT id, name, Score FROM users ORDER BY id`, nil, OutputTuple)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(1), "ana", 2.5},
		{int64(2), "bob", 0.0},
	}, res.Tuples)
}

func TestCheckInserted(t *testing.T) {
	db := newTestDB(t)

	assert.True(t, db.checkInserted("batch", "t", 3, 3))
	assert.False(t, db.checkInserted("batch", "t", 2, 3))
}
