// Package metrics derives and formats the valuation figures shown for a company.
package metrics

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/aristath/stockdash/internal/domain"
)

// NotAvailable is rendered wherever a value is missing
const NotAvailable = "N/A"

// FormatLargeNumber renders a currency amount with a T/B/M/K suffix chosen on the absolute value.
// Absent and non-numeric values render as N/A. Zero renders as "$0.00".
func FormatLargeNumber(v domain.Value) string {
	num, ok := v.Float()
	if !ok {
		return NotAvailable
	}
	return formatMagnitude(num)
}

func formatMagnitude(num float64) string {
	abs := math.Abs(num)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", num/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", num/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", num/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", num/1e3)
	default:
		return fmt.Sprintf("$%.2f", num)
	}
}

// PercentChange returns (current - previous) / previous * 100, or 0 when previous is zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// truthyFloat returns the number held by v when it is present and non-zero.
// Zero is treated like a missing value, matching how the provider reports unknown figures.
func truthyFloat(v domain.Value) (float64, bool) {
	f, ok := v.Float()
	if !ok || f == 0 {
		return 0, false
	}
	return f, true
}

// FormatPrice renders "$123.45"
func FormatPrice(v domain.Value) string {
	f, ok := truthyFloat(v)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2f", f)
}

// FormatRatio renders "12.34"
func FormatRatio(v domain.Value) string {
	f, ok := truthyFloat(v)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", f)
}

// FormatPercent renders a fraction as a percentage: 0.0123 -> "1.23%"
func FormatPercent(v domain.Value) string {
	f, ok := truthyFloat(v)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", f*100)
}

// FormatCount renders a whole number with thousands separators: 1234567 -> "1,234,567"
func FormatCount(v domain.Value) string {
	f, ok := truthyFloat(v)
	if !ok {
		return NotAvailable
	}
	return humanize.Comma(int64(math.RoundToEven(f)))
}

// FormatDelta renders a price change with its percentage: "+1.50 (+0.79%)".
// Returns "" when there is no change.
func FormatDelta(change, pct float64) string {
	if change == 0 {
		return ""
	}
	return fmt.Sprintf("%+.2f (%+.2f%%)", change, pct)
}
