package db

import (
	"database/sql/driver"
	"time"

	"github.com/orsinium-labs/enum"
)

// ColumnType is the SQL type given to a column created from a batch.
type ColumnType enum.Member[string]

var (
	ColumnTypeInteger   = ColumnType{Value: "INTEGER"}
	ColumnTypeReal      = ColumnType{Value: "REAL"}
	ColumnTypeBlob      = ColumnType{Value: "BLOB"}
	ColumnTypeDate      = ColumnType{Value: "DATE"}
	ColumnTypeTimestamp = ColumnType{Value: "TIMESTAMP"}
	ColumnTypeText      = ColumnType{Value: "TEXT"}
)

// dateLayout is the textual form of a Date stored in SQLite.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day. Columns inferred from a
// Date are created as DATE, while time.Time becomes TIMESTAMP.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// inferColumnType returns the SQL type for a single Go value and whether
// the value carried type information at all (NULL does not).
func inferColumnType(value any) (ColumnType, bool) {
	switch v := value.(type) {
	case nil:
		return ColumnTypeText, false
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ColumnTypeInteger, true
	case float32, float64:
		return ColumnTypeReal, true
	case []byte:
		return ColumnTypeBlob, true
	case Date, *Date:
		return ColumnTypeDate, true
	case time.Time, *time.Time:
		return ColumnTypeTimestamp, true
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return ColumnTypeText, true
		}
		return inferColumnType(inner)
	}

	return ColumnTypeText, true
}

// inferColumnTypes derives one SQL type per field of the batch.
//
// The first non NULL value of each column decides its type. An INTEGER
// column is widened to REAL if any later value is a float, and a column
// with only NULL values is TEXT.
func inferColumnTypes(rows []Row) []ColumnType {
	if len(rows) == 0 {
		return nil
	}

	width := rows[0].Len()
	types := make([]ColumnType, width)
	decided := make([]bool, width)

	for _, row := range rows {
		for i, value := range row.values {
			typ, ok := inferColumnType(value)
			if !ok {
				continue
			}
			if !decided[i] {
				types[i], decided[i] = typ, true
				continue
			}
			if types[i] == ColumnTypeInteger && typ == ColumnTypeReal {
				types[i] = ColumnTypeReal
			}
		}
	}

	for i := range types {
		if !decided[i] {
			types[i] = ColumnTypeText
		}
	}

	return types
}
