package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutputType(t *testing.T) {
	tests := []struct {
		input       string
		expected    OutputType
		expectError bool
	}{
		{input: "namedrow", expected: OutputNamedRow},
		{input: "namedtuple", expected: OutputNamedRow},
		{input: "named", expected: OutputNamedRow},
		{input: "map", expected: OutputMap},
		{input: "dict", expected: OutputMap},
		{input: " DICT ", expected: OutputMap},
		{input: "tuple", expected: OutputTuple},
		{input: "list", expected: OutputTuple},
		{input: "json", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			output, err := ParseOutputType(tt.input)
			if tt.expectError {
				assert.ErrorContains(t, err, "valid values are: namedrow, map, tuple")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}
