package metrics

import (
	"github.com/aristath/stockdash/internal/domain"
)

// Row is one line of the metrics table
type Row struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Table is the fixed-order metrics table
type Table []Row

// Value returns the formatted value for a metric name
func (t Table) Value(metric string) (string, bool) {
	for _, r := range t {
		if r.Metric == metric {
			return r.Value, true
		}
	}
	return "", false
}

type rowSpec struct {
	metric string
	keys   []string
	format func(domain.Value) string
}

// rowSpecs defines the table. The order is part of the output contract.
var rowSpecs = []rowSpec{
	{"Current Price", []string{"currentPrice", "regularMarketPrice"}, FormatPrice},
	{"Previous Close", []string{"previousClose"}, FormatPrice},
	{"Open", []string{"open", "regularMarketOpen"}, FormatPrice},
	{"Day High", []string{"dayHigh", "regularMarketDayHigh"}, FormatPrice},
	{"Day Low", []string{"dayLow", "regularMarketDayLow"}, FormatPrice},
	{"52 Week High", []string{"fiftyTwoWeekHigh"}, FormatPrice},
	{"52 Week Low", []string{"fiftyTwoWeekLow"}, FormatPrice},
	{"Market Cap", []string{"marketCap"}, FormatLargeNumber},
	{"P/E Ratio (Trailing)", []string{"trailingPE"}, FormatRatio},
	{"P/E Ratio (Forward)", []string{"forwardPE"}, FormatRatio},
	{"PEG Ratio", []string{"pegRatio"}, FormatRatio},
	{"Price to Book", []string{"priceToBook"}, FormatRatio},
	{"EPS (TTM)", []string{"trailingEps"}, FormatPrice},
	{"Dividend Yield", []string{"dividendYield"}, FormatPercent},
	{"Dividend Rate", []string{"dividendRate"}, FormatPrice},
	{"Beta", []string{"beta"}, FormatRatio},
	{"Volume", []string{"volume", "regularMarketVolume"}, FormatCount},
	{"Avg Volume", []string{"averageVolume"}, FormatCount},
	{"Revenue", []string{"totalRevenue"}, FormatLargeNumber},
	{"Profit Margin", []string{"profitMargins"}, FormatPercent},
	{"Operating Margin", []string{"operatingMargins"}, FormatPercent},
	{"ROE", []string{"returnOnEquity"}, FormatPercent},
	{"ROA", []string{"returnOnAssets"}, FormatPercent},
}

// BuildTable formats every metric row from the metadata. Missing fields render as N/A.
func BuildTable(meta domain.Metadata) Table {
	table := make(Table, 0, len(rowSpecs))
	for _, spec := range rowSpecs {
		table = append(table, Row{
			Metric: spec.metric,
			Value:  spec.format(meta.First(spec.keys...)),
		})
	}
	return table
}
