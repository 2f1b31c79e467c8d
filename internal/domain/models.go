// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Bar is one daily price observation
type Bar struct {
	Date   time.Time `json:"date" msgpack:"date"`
	Open   float64   `json:"open" msgpack:"open"`
	High   float64   `json:"high" msgpack:"high"`
	Low    float64   `json:"low" msgpack:"low"`
	Close  float64   `json:"close" msgpack:"close"`
	Volume int64     `json:"volume" msgpack:"volume"`
}

// IsDown reports whether the bar closed below its open.
// Unchanged bars count as up.
func (b Bar) IsDown() bool {
	return b.Close < b.Open
}

// CalendarDate returns midnight UTC of t's calendar day in t's own location.
// Bars carry dates in this form so they survive encoders that drop the location.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PriceHistory is an ordered sequence of bars, ascending by date as received from the provider
type PriceHistory []Bar

// Closes returns the close column
func (h PriceHistory) Closes() []float64 {
	closes := make([]float64, len(h))
	for i, b := range h {
		closes[i] = b.Close
	}
	return closes
}

// Dates returns the date column
func (h PriceHistory) Dates() []time.Time {
	dates := make([]time.Time, len(h))
	for i, b := range h {
		dates[i] = b.Date
	}
	return dates
}

// WithCalendarDates returns a copy whose bar dates are normalised with CalendarDate
func (h PriceHistory) WithCalendarDates() PriceHistory {
	out := make(PriceHistory, len(h))
	for i, b := range h {
		b.Date = CalendarDate(b.Date)
		out[i] = b
	}
	return out
}

// Last returns the most recent bar
func (h PriceHistory) Last() (Bar, bool) {
	if len(h) == 0 {
		return Bar{}, false
	}
	return h[len(h)-1], true
}

// Period is a lookback window understood by the provider
type Period string

const (
	Period1W  Period = "5d"
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	PeriodMax Period = "max"
)

// DefaultPeriod is preselected in the UI and used when none is given
const DefaultPeriod = Period1Y

// PeriodOption pairs a period code with its display label
type PeriodOption struct {
	Label  string `json:"label"`
	Period Period `json:"period"`
}

// PeriodOptions lists the selectable periods in display order
var PeriodOptions = []PeriodOption{
	{Label: "1 Week", Period: Period1W},
	{Label: "1 Month", Period: Period1M},
	{Label: "3 Months", Period: Period3M},
	{Label: "6 Months", Period: Period6M},
	{Label: "1 Year", Period: Period1Y},
	{Label: "2 Years", Period: Period2Y},
	{Label: "5 Years", Period: Period5Y},
	{Label: "Max", Period: PeriodMax},
}

// Label returns the display label, or the raw code for unknown periods
func (p Period) Label() string {
	for _, opt := range PeriodOptions {
		if opt.Period == p {
			return opt.Label
		}
	}
	return string(p)
}

// ParsePeriod accepts either a period code ("1y") or its label ("1 Year"), case-insensitively.
// An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, opt := range PeriodOptions {
		if strings.EqualFold(s, string(opt.Period)) || strings.EqualFold(s, opt.Label) {
			return opt.Period, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// NormalizeSymbol upper-cases and trims a user-entered ticker
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Snapshot is the result of one successful fetch
type Snapshot struct {
	FetchedAt time.Time    `json:"fetched_at"`
	Symbol    string       `json:"symbol"`
	Period    Period       `json:"period"`
	History   PriceHistory `json:"history"`
	Metadata  Metadata     `json:"metadata"`
}
