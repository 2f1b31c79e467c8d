package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSymbols(t *testing.T) {
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
			name:     "whitespace only",
			input:    "  , ,\t",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "aapl",
			expected: []string{"AAPL"},
		},
		{
			name:     "comma separated with varied spacing",
			input:    "AAPL,  msft , Tsla",
			expected: []string{"AAPL", "MSFT", "TSLA"},
		},
		{
			name:     "space separated",
			input:    "GOOGL NVDA",
			expected: []string{"GOOGL", "NVDA"},
		},
		{
			name:     "duplicates keep first position",
			input:    "msft,AAPL,MSFT",
			expected: []string{"MSFT", "AAPL"},
		},
		{
			name:     "trailing and leading commas",
			input:    ",BRK-B,",
			expected: []string{"BRK-B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSymbols(tt.input))
		})
	}
}
