package db

import (
	"fmt"
	"reflect"
	"strings"
)

// structField is a column reachable from a struct type.
type structField struct {
	column string
	index  []int
}

// structFields returns the columns of a struct type in declaration order.
//
// Column names come from the `db` tag, a tag of "-" skips the field and
// untagged fields use their Go name. Untagged embedded structs are
// promoted into the parent.
func structFields(t reflect.Type) ([]structField, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("given %v, expected struct", t.Kind())
	}

	fields := []structField{}
	seen := map[string]struct{}{}
	add := func(f structField) error {
		if _, ok := seen[f.column]; ok {
			return fmt.Errorf("duplicate column name %s", f.column)
		}
		seen[f.column] = struct{}{}
		fields = append(fields, f)
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}

		tag := sf.Tag.Get("db")
		if tag == "-" {
			continue
		}
		column, _, _ := strings.Cut(tag, ",")

		if sf.Anonymous && column == "" && sf.Type.Kind() == reflect.Struct {
			embedded, err := structFields(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("failed to process embedded struct %s: %w", sf.Name, err)
			}
			for _, f := range embedded {
				f.index = append([]int{i}, f.index...)
				if err := add(f); err != nil {
					return nil, err
				}
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		if column == "" {
			column = sf.Name
		}
		if err := add(structField{column: column, index: []int{i}}); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

// RowsFromStructs converts a slice (or array) of structs or struct
// pointers into rows, one field per exported struct field.
func RowsFromStructs(slice any) ([]Row, error) {
	v := reflect.ValueOf(slice)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("given %T, wanted a slice of structs", slice)
	}

	elemType := v.Type().Elem()
	isPointer := elemType.Kind() == reflect.Pointer
	if isPointer {
		elemType = elemType.Elem()
	}

	fields, err := structFields(elemType)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect fields for %v: %w", elemType, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%v: %w", elemType, ErrNoColumns)
	}

	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.column
	}

	rows := make([]Row, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if isPointer {
			if elem.IsNil() {
				return nil, fmt.Errorf("element %d is a nil pointer", i)
			}
			elem = elem.Elem()
		}

		values := make([]any, len(fields))
		for j, f := range fields {
			values[j] = elem.FieldByIndex(f.index).Interface()
		}
		rows = append(rows, Row{fields: columns, values: values})
	}

	return rows, nil
}
