package validate

import (
	"errors"
	"strings"
)

// Identifier validates a table or column name before it is quoted into a
// SQL statement. Any text is a valid quoted SQLite identifier except the
// empty string and text containing NUL characters.
func Identifier(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("identifier cannot be empty")
	}
	if strings.ContainsRune(name, 0) {
		return errors.New("identifier cannot contain NUL characters")
	}
	return nil
}

// QuoteIdentifier validates name and returns it double quoted, with inner
// double quotes escaped.
func QuoteIdentifier(name string) (string, error) {
	if err := Identifier(name); err != nil {
		return "", err
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}
