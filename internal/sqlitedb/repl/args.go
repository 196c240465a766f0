package repl

import (
	"errors"
	"os"
	"strings"
)

// splitArgs splits the arguments of a dot command on whitespace. Single or
// double quotes group words, so `.import "some data.csv"` is one file.
func splitArgs(s string) ([]string, error) {
	args := []string{}
	var current strings.Builder
	var quote rune
	inArg := false

	for _, ch := range s {
		switch {
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(ch)
		case ch == '"' || ch == '\'':
			quote, inArg = ch, true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

// unquote removes a pair of matching quotes around s.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// importFiles returns the files named by the .import arguments. An
// unquoted rest of line naming an existing file is taken as a single path,
// so file names with spaces work without quotes.
func importFiles(rest string, args []string) []string {
	if len(args) > 1 {
		if info, err := os.Stat(rest); err == nil && info.Mode().IsRegular() {
			return []string{rest}
		}
	}
	return args
}
