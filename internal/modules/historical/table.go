// Package historical builds the historical price table shown under the chart.
package historical

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/aristath/stockdash/internal/domain"
)

const dateLayout = "2006-01-02"

// Columns is the header of the historical table
var Columns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Row is one displayed bar. Prices are already rounded to 2 decimals.
type Row struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
	// VolumeDisplay carries thousands separators
	VolumeDisplay string `json:"volume_display"`
}

// Round2 rounds half away from zero to 2 decimal places, on the decimal value
// as written rather than its binary approximation: 2.675 becomes 2.68. Binary
// half-even rounding would give 2.67; displayed figures follow the written value.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Cells returns the row as displayed
func (r Row) Cells() []string {
	return []string{
		r.Date,
		formatPrice(r.Open),
		formatPrice(r.High),
		formatPrice(r.Low),
		formatPrice(r.Close),
		r.VolumeDisplay,
	}
}

// Record returns the row for delimited export: identical to Cells except volume has no separators
func (r Row) Record() []string {
	cells := r.Cells()
	cells[5] = strconv.FormatInt(r.Volume, 10)
	return cells
}

// Table is the historical table, most recent bar first
type Table []Row

// BuildTable converts a price history into display rows in reverse chronological order
func BuildTable(history domain.PriceHistory) Table {
	table := make(Table, len(history))
	for i, b := range history {
		table[len(history)-1-i] = Row{
			Date:          b.Date.Format(dateLayout),
			Open:          Round2(b.Open),
			High:          Round2(b.High),
			Low:           Round2(b.Low),
			Close:         Round2(b.Close),
			Volume:        b.Volume,
			VolumeDisplay: humanize.Comma(b.Volume),
		}
	}
	return table
}

// Limit returns at most n most recent rows. n <= 0 returns the whole table.
func (t Table) Limit(n int) Table {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}
