package db

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Row is a record with a fixed, ordered set of uniquely named fields.
type Row struct {
	fields []string
	values []any
}

// NewRow creates a Row. fields and values must have the same length and
// field names must be unique.
func NewRow(fields []string, values []any) (Row, error) {
	if len(fields) != len(values) {
		return Row{}, fmt.Errorf(
			"row has %d fields but %d values", len(fields), len(values),
		)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			return Row{}, fmt.Errorf("duplicate field %q", field)
		}
		seen[field] = struct{}{}
	}

	return Row{
		fields: slices.Clone(fields),
		values: slices.Clone(values),
	}, nil
}

// MustNewRow is like NewRow but panics on error. Intended for literals in
// tests and examples.
func MustNewRow(fields []string, values []any) Row {
	row, err := NewRow(fields, values)
	if err != nil {
		panic(err)
	}
	return row
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.fields)
}

// Fields returns a copy of the field names in order.
func (r Row) Fields() []string {
	return slices.Clone(r.fields)
}

// Values returns a copy of the values in field order.
func (r Row) Values() []any {
	return slices.Clone(r.values)
}

// Get returns the value of the given field.
func (r Row) Get(field string) (any, bool) {
	idx := slices.Index(r.fields, field)
	if idx < 0 {
		return nil, false
	}
	return r.values[idx], true
}

// Map returns the row as a map keyed by field name.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, field := range r.fields {
		m[field] = r.values[i]
	}
	return m
}

// alignTo returns the row with its values ordered like fields. It reports
// false when the row doesn't have exactly that set of fields.
func (r Row) alignTo(fields []string) (Row, bool) {
	if len(r.fields) != len(fields) {
		return Row{}, false
	}
	if slices.Equal(r.fields, fields) {
		return r, true
	}

	values := make([]any, len(fields))
	for i, field := range fields {
		idx := slices.Index(r.fields, field)
		if idx < 0 {
			return Row{}, false
		}
		values[i] = r.values[idx]
	}
	return Row{fields: fields, values: values}, true
}

// RowsFromMaps normalizes maps into rows sharing the union of all keys,
// sorted by name. Keys missing from a map get a NULL value.
func RowsFromMaps(maps []map[string]any) []Row {
	keySet := map[string]struct{}{}
	for _, m := range maps {
		for k := range m {
			keySet[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(maps))
	for _, m := range maps {
		values := make([]any, len(keys))
		for i, k := range keys {
			values[i] = m[k]
		}
		rows = append(rows, Row{fields: keys, values: values})
	}

	return rows
}

// makeColumnsUnique renames repeated column names by appending
// underscores, one more for every collision, so "a, a, a" becomes
// "a, a_, a___".
func makeColumnsUnique(columns []string) []string {
	seen := make(map[string]struct{}, len(columns))
	unique := make([]string, 0, len(columns))

	for _, column := range columns {
		for counter := 1; ; counter++ {
			if _, ok := seen[column]; !ok {
				break
			}
			column += strings.Repeat("_", counter)
		}
		seen[column] = struct{}{}
		unique = append(unique, column)
	}

	return unique
}
