package styled

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-sqlite3"
)

var codeNames = map[sqlite3.ErrNo]string{
	sqlite3.ErrError:      "SQLITE_ERROR",
	sqlite3.ErrBusy:       "SQLITE_BUSY",
	sqlite3.ErrLocked:     "SQLITE_LOCKED",
	sqlite3.ErrReadonly:   "SQLITE_READONLY",
	sqlite3.ErrIoErr:      "SQLITE_IOERR",
	sqlite3.ErrCorrupt:    "SQLITE_CORRUPT",
	sqlite3.ErrFull:       "SQLITE_FULL",
	sqlite3.ErrCantOpen:   "SQLITE_CANTOPEN",
	sqlite3.ErrConstraint: "SQLITE_CONSTRAINT",
	sqlite3.ErrMismatch:   "SQLITE_MISMATCH",
	sqlite3.ErrMisuse:     "SQLITE_MISUSE",
	sqlite3.ErrRange:      "SQLITE_RANGE",
	sqlite3.ErrNotADB:     "SQLITE_NOTADB",
}

var extendedCodeNames = map[sqlite3.ErrNoExtended]string{
	sqlite3.ErrConstraintCheck:      "SQLITE_CONSTRAINT_CHECK",
	sqlite3.ErrConstraintForeignKey: "SQLITE_CONSTRAINT_FOREIGNKEY",
	sqlite3.ErrConstraintNotNull:    "SQLITE_CONSTRAINT_NOTNULL",
	sqlite3.ErrConstraintPrimaryKey: "SQLITE_CONSTRAINT_PRIMARYKEY",
	sqlite3.ErrConstraintTrigger:    "SQLITE_CONSTRAINT_TRIGGER",
	sqlite3.ErrConstraintUnique:     "SQLITE_CONSTRAINT_UNIQUE",
	sqlite3.ErrConstraintRowID:      "SQLITE_CONSTRAINT_ROWID",
}

// codeName returns the symbolic name of the most specific code of err,
// falling back to SQLite's description of the extended code.
func codeName(err sqlite3.Error) string {
	if name, ok := extendedCodeNames[err.ExtendedCode]; ok {
		return name
	}
	if name, ok := codeNames[err.Code]; ok {
		return name
	}
	return err.ExtendedCode.Error()
}

// ErrorText returns the message shown to the user for err. SQLite errors
// carry the name and number of their result codes, and constraint failures
// are labelled as such.
func ErrorText(err error) string {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err.Error()
	}

	label := "sqlite error"
	if sqliteErr.Code == sqlite3.ErrConstraint {
		label = "constraint violation"
	}
	return fmt.Sprintf(
		"%s: %s (%s, code %d, extended code %d)",
		label, sqliteErr.Error(), codeName(sqliteErr),
		int(sqliteErr.Code), int(sqliteErr.ExtendedCode),
	)
}

// PrintError prints err to w in red.
func PrintError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintln(w, ErrorText(err))
}
