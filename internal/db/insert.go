package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/validate"
)

// connection returns the open connection or ErrClosed.
func (db *DB) connection() (*sql.DB, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}
	return db.conn, nil
}

// runInTx runs fn inside a transaction, committing if it returns nil and
// rolling back otherwise.
func (db *DB) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := db.connection()
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.Logger.ErrorNs(log.NsDatabase, "failed to rollback transaction", log.KV{
				"error": err,
			})
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// checkFields verifies every row has the field set of the first one and
// returns the rows with their values in the field order of the first row.
func checkFields(rows []Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if rows[0].Len() == 0 {
		return nil, ErrNoColumns
	}

	fields := rows[0].fields
	aligned := make([]Row, len(rows))
	for i, row := range rows {
		alignedRow, ok := row.alignTo(fields)
		if !ok {
			return nil, fmt.Errorf(
				"row %d has fields %v, expected %v: %w",
				i, row.fields, fields, ErrMismatchedFields,
			)
		}
		aligned[i] = alignedRow
	}
	return aligned, nil
}

// quoteAll quotes a list of identifiers.
func quoteAll(names []string) ([]string, error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		q, err := validate.QuoteIdentifier(name)
		if err != nil {
			return nil, fmt.Errorf("invalid column name %q: %w", name, err)
		}
		quoted[i] = q
	}
	return quoted, nil
}

// createTableQuery builds the CREATE TABLE IF NOT EXISTS statement for the
// given columns.
func createTableQuery(
	table string, fields []string, types []ColumnType,
) (string, error) {
	quotedTable, err := validate.QuoteIdentifier(table)
	if err != nil {
		return "", fmt.Errorf("invalid table name %q: %w", table, err)
	}
	quotedFields, err := quoteAll(fields)
	if err != nil {
		return "", err
	}

	definitions := make([]string, len(fields))
	for i := range fields {
		definitions[i] = quotedFields[i] + " " + types[i].Value
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		quotedTable, strings.Join(definitions, ", "),
	), nil
}

// insertQuery builds the parameterized INSERT statement for the given
// columns.
func insertQuery(table string, fields []string) (string, error) {
	quotedTable, err := validate.QuoteIdentifier(table)
	if err != nil {
		return "", fmt.Errorf("invalid table name %q: %w", table, err)
	}
	quotedFields, err := quoteAll(fields)
	if err != nil {
		return "", err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quotedTable, strings.Join(quotedFields, ", "), placeholders,
	), nil
}

// createTable creates table inside tx with the given columns.
func createTable(
	ctx context.Context, tx *sql.Tx, table string, fields []string, types []ColumnType,
) error {
	query, err := createTableQuery(table, fields, types)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// insertBatch inserts rows into table inside tx using one prepared
// statement and returns the number of inserted rows.
func insertBatch(
	ctx context.Context, tx *sql.Tx, table string, rows []Row,
) (int64, error) {
	query, err := insertQuery(table, rows[0].fields)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range rows {
		res, err := stmt.ExecContext(ctx, row.values...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert row %d: %w", i, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += affected
	}

	return inserted, nil
}

// CreateTable creates table, if it doesn't exist, with the columns and
// inferred types of rows.
func (db *DB) CreateTable(ctx context.Context, table string, rows []Row) error {
	rows, err := checkFields(rows)
	if err != nil {
		return err
	}

	return db.runInTx(ctx, func(tx *sql.Tx) error {
		return createTable(ctx, tx, table, rows[0].fields, inferColumnTypes(rows))
	})
}

// InsertRows inserts a batch of uniform rows into table in a single
// transaction, creating the table first when create is true and it doesn't
// exist yet.
//
// It returns true only if every row was inserted. A count mismatch is
// reported as false with a nil error, store failures as an error.
func (db *DB) InsertRows(
	ctx context.Context, table string, rows []Row, create bool,
) (bool, error) {
	rows, err := checkFields(rows)
	if err != nil {
		return false, err
	}

	batchID := uuid.NewString()
	db.Logger.DebugNs(log.NsDatabase, "inserting rows", log.KV{
		"batch":  batchID,
		"table":  table,
		"rows":   len(rows),
		"create": create,
	})

	var inserted int64
	err = db.runInTx(ctx, func(tx *sql.Tx) error {
		if create {
			err := createTable(ctx, tx, table, rows[0].fields, inferColumnTypes(rows))
			if err != nil {
				return err
			}
		}

		n, err := insertBatch(ctx, tx, table, rows)
		inserted = n
		return err
	})
	if err != nil {
		return false, err
	}

	return db.checkInserted(batchID, table, inserted, len(rows)), nil
}

// checkInserted compares the inserted count with the expected one and logs
// a warning when they differ.
func (db *DB) checkInserted(batchID, table string, inserted int64, expected int) bool {
	if inserted == int64(expected) {
		return true
	}

	db.Logger.WarnNs(log.NsDatabase, "inserted row count mismatch", log.KV{
		"batch":    batchID,
		"table":    table,
		"inserted": inserted,
		"expected": expected,
	})
	return false
}

// InsertStructs inserts a slice of structs (or struct pointers) into
// table. See RowsFromStructs for how fields map to columns.
func (db *DB) InsertStructs(
	ctx context.Context, table string, slice any, create bool,
) (bool, error) {
	rows, err := RowsFromStructs(slice)
	if err != nil {
		return false, err
	}
	return db.InsertRows(ctx, table, rows, create)
}

// InsertMaps normalizes maps to the union of their keys and inserts them
// into table, creating it if needed.
func (db *DB) InsertMaps(
	ctx context.Context, table string, maps []map[string]any,
) (bool, error) {
	return db.InsertRows(ctx, table, RowsFromMaps(maps), true)
}
