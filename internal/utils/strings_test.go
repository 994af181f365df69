package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "SIP:40",
			expected: []string{"SIP:40"},
		},
		{
			name:     "varied spacing",
			input:    "SIP:40,  BTC:15 , USD:10",
			expected: []string{"SIP:40", "BTC:15", "USD:10"},
		},
		{
			name:     "only separators",
			input:    " , ,, ",
			expected: nil,
		},
		{
			name:     "trailing comma",
			input:    "BTC,",
			expected: []string{"BTC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCSV(tt.input))
		})
	}
}
