package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/nsqlite/sqlitedb/internal/validate"
)

// QueryResult holds the rows of a read query in the requested shape. Only
// the slice matching Output is populated.
type QueryResult struct {
	Output  OutputType
	Columns []string

	// Types holds the lower case declared type of every column. Columns
	// without one, like expressions, get the type of their first value.
	Types []string

	Rows   []Row
	Maps   []map[string]any
	Tuples [][]any
}

// Len returns the number of rows in the result.
func (r QueryResult) Len() int {
	switch r.Output {
	case OutputNamedRow:
		return len(r.Rows)
	case OutputMap:
		return len(r.Maps)
	case OutputTuple:
		return len(r.Tuples)
	}
	return 0
}

// pickOutput returns the first given output type or the handle default.
func (db *DB) pickOutput(output []OutputType) (OutputType, error) {
	if len(output) == 0 {
		return db.DefaultOutput, nil
	}
	if !OutputTypes.Contains(output[0]) {
		return OutputType{}, fmt.Errorf("invalid output type %q", output[0].Value)
	}
	return output[0], nil
}

// Query runs a read query with the given parameters and materializes the
// rows as named rows, maps or tuples. When output is omitted the handle's
// DefaultOutput is used.
func (db *DB) Query(
	ctx context.Context, query string, params []any, output ...OutputType,
) (QueryResult, error) {
	pickedOutput, err := db.pickOutput(output)
	if err != nil {
		return QueryResult{}, err
	}
	conn, err := db.connection()
	if err != nil {
		return QueryResult{}, err
	}

	rows, err := conn.QueryContext(ctx, query, params...)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to execute read query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to get columns: %w", err)
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to get column types: %w", err)
	}

	values := [][]any{}
	for rows.Next() {
		row := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range scans {
			scans[i] = &row[i]
		}

		if err := rows.Scan(scans...); err != nil {
			return QueryResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to read rows: %w", err)
	}

	result := materialize(pickedOutput, columns, values)
	result.Types = typeNames(columnTypes, values)
	return result, nil
}

// typeNames returns the declared column types, inferring the missing ones
// from the first row following https://www.sqlite.org/datatype3.html.
func typeNames(columnTypes []*sql.ColumnType, values [][]any) []string {
	names := make([]string, len(columnTypes))
	for i, t := range columnTypes {
		names[i] = strings.ToLower(t.DatabaseTypeName())
		if names[i] != "" || len(values) == 0 {
			continue
		}

		switch values[0][i].(type) {
		case int64:
			names[i] = "integer"
		case float64:
			names[i] = "real"
		case []byte:
			names[i] = "blob"
		case string:
			names[i] = "text"
		}
	}
	return names
}

// materialize shapes scanned values according to output.
func materialize(output OutputType, columns []string, values [][]any) QueryResult {
	result := QueryResult{
		Output:  output,
		Columns: columns,
	}

	switch output {
	case OutputTuple:
		result.Tuples = values
	case OutputMap:
		result.Maps = make([]map[string]any, 0, len(values))
		for _, row := range values {
			m := make(map[string]any, len(columns))
			for i, column := range columns {
				m[column] = row[i]
			}
			result.Maps = append(result.Maps, m)
		}
	case OutputNamedRow:
		unique := makeColumnsUnique(columns)
		result.Rows = make([]Row, 0, len(values))
		for _, row := range values {
			result.Rows = append(result.Rows, Row{fields: unique, values: row})
		}
	}

	return result
}

// GetAllRows returns every row of table.
func (db *DB) GetAllRows(
	ctx context.Context, table string, output ...OutputType,
) (QueryResult, error) {
	quotedTable, err := validate.QuoteIdentifier(table)
	if err != nil {
		return QueryResult{}, fmt.Errorf("invalid table name %q: %w", table, err)
	}
	return db.Query(ctx, "SELECT * FROM "+quotedTable, nil, output...)
}

// ListTables returns the names of the user tables, sorted by name.
func (db *DB) ListTables(ctx context.Context) ([]string, error) {
	res, err := db.Query(
		ctx,
		`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`,
		nil,
		OutputTuple,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]string, 0, len(res.Tuples))
	for _, row := range res.Tuples {
		tables = append(tables, fmt.Sprint(row[0]))
	}
	return tables, nil
}

// ListColumns returns the name and declared type of every column of table.
func (db *DB) ListColumns(ctx context.Context, table string) ([]Column, error) {
	if err := validate.Identifier(table); err != nil {
		return nil, fmt.Errorf("invalid table name %q: %w", table, err)
	}

	res, err := db.Query(
		ctx,
		"SELECT name, type FROM pragma_table_info(?) ORDER BY cid",
		[]any{table},
		OutputTuple,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	columns := make([]Column, 0, len(res.Tuples))
	for _, row := range res.Tuples {
		columns = append(columns, Column{
			Name: fmt.Sprint(row[0]),
			Type: fmt.Sprint(row[1]),
		})
	}
	return columns, nil
}

// CountRows returns the number of rows in table.
func (db *DB) CountRows(ctx context.Context, table string) (int64, error) {
	quotedTable, err := validate.QuoteIdentifier(table)
	if err != nil {
		return 0, fmt.Errorf("invalid table name %q: %w", table, err)
	}
	conn, err := db.connection()
	if err != nil {
		return 0, err
	}

	var count int64
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quotedTable).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// Execute runs a single statement and returns the number of affected rows.
func (db *DB) Execute(ctx context.Context, query string, params ...any) (int64, error) {
	conn, err := db.connection()
	if err != nil {
		return 0, err
	}

	res, err := conn.ExecContext(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute write query: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// ExecuteMany runs a statement once per parameter tuple inside a single
// transaction and returns the total number of affected rows.
func (db *DB) ExecuteMany(ctx context.Context, query string, batch [][]any) (int64, error) {
	var total int64
	err := db.runInTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, params := range batch {
			res, err := stmt.ExecContext(ctx, params...)
			if err != nil {
				return fmt.Errorf("failed to execute statement %d: %w", i, err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			total += affected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// RowCount runs a statement and returns the number of affected rows. With
// zero or one parameter tuple the statement runs once, with several tuples
// it runs once per tuple like ExecuteMany.
func (db *DB) RowCount(ctx context.Context, query string, batch ...[]any) (int64, error) {
	switch len(batch) {
	case 0:
		return db.Execute(ctx, query)
	case 1:
		return db.Execute(ctx, query, batch[0]...)
	}
	return db.ExecuteMany(ctx, query, batch)
}

// StatementInfo describes a prepared statement without running it.
type StatementInfo struct {
	// ReadOnly is true when the statement doesn't write to the database.
	ReadOnly bool
	// ReturnsRows is true when the statement produces result columns, like
	// SELECT, most PRAGMAs and INSERT ... RETURNING.
	ReturnsRows bool
}

// Inspect prepares query on the raw SQLite connection and reports what it
// does. The statement is never stepped.
func (db *DB) Inspect(ctx context.Context, query string) (StatementInfo, error) {
	if strings.TrimSpace(query) == "" {
		return StatementInfo{}, errors.New("empty query")
	}
	conn, err := db.connection()
	if err != nil {
		return StatementInfo{}, err
	}

	rawConn, err := conn.Conn(ctx)
	if err != nil {
		return StatementInfo{}, fmt.Errorf("failed to get connection: %w", err)
	}
	defer rawConn.Close()

	info := StatementInfo{}
	err = rawConn.Raw(func(driverConn any) error {
		sqliteConn, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		drvStmt, err := sqliteConn.Prepare(query)
		if err != nil {
			return err
		}
		defer drvStmt.Close()

		sqliteStmt, ok := drvStmt.(*sqlite3.SQLiteStmt)
		if !ok {
			return fmt.Errorf("unexpected driver statement %T", drvStmt)
		}
		info.ReadOnly = sqliteStmt.Readonly()

		// Binding without stepping only exposes the column count.
		drvRows, err := sqliteStmt.Query(nil)
		if err != nil {
			return err
		}
		info.ReturnsRows = len(drvRows.Columns()) > 0
		return drvRows.Close()
	})
	if err != nil {
		return StatementInfo{}, fmt.Errorf("failed to prepare statement: %w", err)
	}

	return info, nil
}

// IsReadOnly reports whether SQLite considers query read only, which is
// the case for SELECT statements and PRAGMA reads without side effects.
func (db *DB) IsReadOnly(ctx context.Context, query string) (bool, error) {
	info, err := db.Inspect(ctx, query)
	if err != nil {
		return false, err
	}
	return info.ReadOnly, nil
}
