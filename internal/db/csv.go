package db

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nsqlite/sqlitedb/internal/log"
	"github.com/nsqlite/sqlitedb/internal/validate"
)

// TableNameFromPath derives the table name for a CSV file: the base name
// without extension, with spaces replaced by underscores.
func TableNameFromPath(filePath string) string {
	base := filepath.Base(filePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, " ", "_")
}

// normalizeHeader turns a CSV header cell into a column name.
func normalizeHeader(header string) string {
	header = strings.TrimPrefix(header, "\ufeff")
	header = strings.TrimSpace(header)
	return strings.ToLower(strings.ReplaceAll(header, " ", "_"))
}

// readCSV reads a CSV file into its normalized header and rows. Every value
// is kept as text.
func readCSV(filePath string) ([]string, []Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%s: %w", filePath, ErrNoColumns)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = normalizeHeader(h)
	}
	if _, err := NewRow(fields, make([]any, len(fields))); err != nil {
		return nil, nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	rows := []Row{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		values := make([]any, len(record))
		for i, v := range record {
			values[i] = v
		}
		rows = append(rows, Row{fields: fields, values: values})
	}

	return fields, rows, nil
}

// InsertCSV loads a CSV file into the table named after the file, see
// TableNameFromPath. The header row defines the columns and every column is
// TEXT. An existing table with the same name is dropped and recreated.
//
// It returns the name of the table.
func (db *DB) InsertCSV(ctx context.Context, filePath string) (string, error) {
	table := TableNameFromPath(filePath)
	quotedTable, err := validate.QuoteIdentifier(table)
	if err != nil {
		return "", fmt.Errorf("invalid table name %q: %w", table, err)
	}

	fields, rows, err := readCSV(filePath)
	if err != nil {
		return "", err
	}

	types := make([]ColumnType, len(fields))
	for i := range types {
		types[i] = ColumnTypeText
	}

	batchID := uuid.NewString()
	db.Logger.InfoNs(log.NsImport, "importing CSV file", log.KV{
		"batch": batchID,
		"file":  filePath,
		"table": table,
		"rows":  len(rows),
	})

	var inserted int64
	err = db.runInTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quotedTable); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		if err := createTable(ctx, tx, table, fields, types); err != nil {
			return err
		}
		if db.csvTableCreated != nil {
			if err := db.csvTableCreated(ctx, tx, table); err != nil {
				return err
			}
		}
		if len(rows) == 0 {
			return nil
		}

		n, err := insertBatch(ctx, tx, table, rows)
		inserted = n
		return err
	})
	if err != nil {
		return "", err
	}

	db.checkInserted(batchID, table, inserted, len(rows))
	return table, nil
}
