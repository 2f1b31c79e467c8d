package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/stockdash/internal/domain"
)

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    domain.Value
		expected string
	}{
		{"absent", domain.Absent(), "N/A"},
		{"NaN", domain.Number(math.NaN()), "N/A"},
		{"string", domain.String("1000"), "N/A"},
		{"zero", domain.Number(0), "$0.00"},
		{"below thousand", domain.Number(999), "$999.00"},
		{"exactly thousand", domain.Number(1000), "$1.00K"},
		{"just below million", domain.Number(999_999), "$1000.00K"},
		{"exactly million", domain.Number(1e6), "$1.00M"},
		{"exactly billion", domain.Number(1e9), "$1.00B"},
		{"exactly trillion", domain.Number(1e12), "$1.00T"},
		{"large trillion", domain.Number(2.95e12), "$2.95T"},
		{"negative billions", domain.Number(-2.5e9), "$-2.50B"},
		{"negative small", domain.Number(-12.5), "$-12.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatLargeNumber(tt.value))
		})
	}
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 10.0, PercentChange(110, 100), 1e-9)
	assert.InDelta(t, -5.0, PercentChange(95, 100), 1e-9)
	assert.Equal(t, 0.0, PercentChange(95, 0))
}

func TestRowFormatters(t *testing.T) {
	tests := []struct {
		name     string
		format   func(domain.Value) string
		value    domain.Value
		expected string
	}{
		{"price", FormatPrice, domain.Number(189.456), "$189.46"},
		{"price zero", FormatPrice, domain.Number(0), "N/A"},
		{"price absent", FormatPrice, domain.Absent(), "N/A"},
		{"price string", FormatPrice, domain.String("N/A"), "N/A"},
		{"ratio", FormatRatio, domain.Number(29.1234), "29.12"},
		{"ratio negative", FormatRatio, domain.Number(-3.5), "-3.50"},
		{"percent", FormatPercent, domain.Number(0.0044), "0.44%"},
		{"percent large", FormatPercent, domain.Number(1.5678), "156.78%"},
		{"percent absent", FormatPercent, domain.Absent(), "N/A"},
		{"count", FormatCount, domain.Number(54_123_456), "54,123,456"},
		{"count small", FormatCount, domain.Number(999), "999"},
		{"count fractional", FormatCount, domain.Number(1234.6), "1,235"},
		{"count absent", FormatCount, domain.Absent(), "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format(tt.value))
		})
	}
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+1.50 (+0.79%)", FormatDelta(1.5, 0.7894))
	assert.Equal(t, "-2.00 (-1.05%)", FormatDelta(-2, -1.0526))
	assert.Equal(t, "", FormatDelta(0, 0))
}
