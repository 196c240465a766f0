package styled

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/sqlitedb/internal/db"
)

// maxBlobPreview is the number of blob bytes shown in a cell.
const maxBlobPreview = 16

// FormatValue returns the text shown in a table cell for a column value.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case []byte:
		if len(v) > maxBlobPreview {
			return fmt.Sprintf("x'%s...' (%d bytes)", hex.EncodeToString(v[:maxBlobPreview]), len(v))
		}
		return fmt.Sprintf("x'%s'", hex.EncodeToString(v))
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case string:
		return v
	}
	return fmt.Sprint(value)
}

func formatRow(values []any) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = FormatValue(v)
	}
	return row
}

// ResultTable renders a query result as a table in the shape it was
// materialized with.
func ResultTable(res db.QueryResult) table.Writer {
	switch res.Output {
	case db.OutputMap:
		// Maps collapse duplicated column names.
		columns := []string{}
		seen := map[string]struct{}{}
		for _, c := range res.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			columns = append(columns, c)
		}

		tw := NewTableWriter(stringsToRow(columns)...)
		for _, m := range res.Maps {
			values := make([]any, len(columns))
			for i, c := range columns {
				values[i] = m[c]
			}
			tw.AppendRow(formatRow(values))
		}
		return tw

	case db.OutputNamedRow:
		header := res.Columns
		if len(res.Rows) > 0 {
			header = res.Rows[0].Fields()
		}

		tw := NewTableWriter(stringsToRow(header)...)
		for _, row := range res.Rows {
			tw.AppendRow(formatRow(row.Values()))
		}
		return tw
	}

	tw := NewTableWriter(stringsToRow(res.Columns)...)
	for _, values := range res.Tuples {
		tw.AppendRow(formatRow(values))
	}
	return tw
}

func stringsToRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
