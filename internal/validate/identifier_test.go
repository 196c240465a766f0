package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "simple",
			input:    "people",
			expected: `"people"`,
		},
		{
			name:     "with spaces",
			input:    "first name",
			expected: `"first name"`,
		},
		{
			name:     "with quotes",
			input:    `say "hi"`,
			expected: `"say ""hi"""`,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "blank",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "nul",
			input:   "a\x00b",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quoted, err := QuoteIdentifier(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, Identifier(tt.input))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, quoted)
		})
	}
}
