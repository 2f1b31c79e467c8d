package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Period
		wantErr  bool
	}{
		{"empty defaults to one year", "", Period1Y, false},
		{"code", "3mo", Period3M, false},
		{"label", "1 Week", Period1W, false},
		{"label case-insensitive", "max", PeriodMax, false},
		{"upper-case code", "5Y", Period5Y, false},
		{"padded label", "  2 Years ", Period2Y, false},
		{"unknown", "10y", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPeriodOptions_OrderAndDefault(t *testing.T) {
	require.Len(t, PeriodOptions, 8)
	assert.Equal(t, "1 Week", PeriodOptions[0].Label)
	assert.Equal(t, Period("5d"), PeriodOptions[0].Period)
	assert.Equal(t, PeriodOptions[4].Period, DefaultPeriod)
	assert.Equal(t, "1 Year", DefaultPeriod.Label())
	assert.Equal(t, "7d", Period("7d").Label())
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.Equal(t, "BRK-B", NormalizeSymbol("brk-b"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestBar_IsDown(t *testing.T) {
	assert.True(t, Bar{Open: 10, Close: 9.99}.IsDown())
	assert.False(t, Bar{Open: 10, Close: 10}.IsDown(), "unchanged bars count as up")
	assert.False(t, Bar{Open: 10, Close: 11}.IsDown())
}

func TestPriceHistory_Columns(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	h := PriceHistory{
		{Date: day, Close: 1},
		{Date: day.AddDate(0, 0, 1), Close: 2},
	}

	assert.Equal(t, []float64{1, 2}, h.Closes())
	assert.Equal(t, day.AddDate(0, 0, 1), h.Dates()[1])

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, last.Close)

	_, ok = PriceHistory{}.Last()
	assert.False(t, ok)
}

func TestCalendarDate_KeepsLocalDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	newYork := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name  string
		input time.Time
	}{
		{"east of UTC", time.Date(2024, 3, 4, 0, 0, 0, 0, tokyo)},
		{"west of UTC", time.Date(2024, 3, 4, 0, 0, 0, 0, newYork)},
		{"late in the day", time.Date(2024, 3, 4, 23, 30, 0, 0, tokyo)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalendarDate(tt.input)
			assert.Equal(t, time.UTC, got.Location())
			assert.Equal(t, "2024-03-04", got.Format("2006-01-02"))
			assert.Equal(t, "2024-03-04", got.UTC().Format("2006-01-02"))
		})
	}
}

func TestPriceHistory_WithCalendarDates(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	history := PriceHistory{{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, tokyo), Close: 10}}

	normalised := history.WithCalendarDates()

	require.Len(t, normalised, 1)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), normalised[0].Date)
	assert.Equal(t, 10.0, normalised[0].Close)
	assert.Equal(t, tokyo, history[0].Date.Location(), "input is not modified")
}
