package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimUpper(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "upper-cases and trims",
			input:    []string{" cz ", "at"},
			expected: []string{"CZ", "AT"},
		},
		{
			name:     "case-insensitive duplicates keep first position",
			input:    []string{"CZ", "AT", "cz", "SK", "At"},
			expected: []string{"CZ", "AT", "SK"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"CZ", "", "  ", "SK"},
			expected: []string{"CZ", "SK"},
		},
		{
			name:     "only blanks",
			input:    []string{"", "   "},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrimUpper(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
