// Package export serializes the on-screen tables to CSV and optionally archives them.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aristath/stockdash/internal/modules/historical"
	"github.com/aristath/stockdash/internal/modules/metrics"
)

// Kind selects which table is exported
type Kind string

const (
	KindHistorical Kind = "historical"
	KindMetrics    Kind = "metrics"
)

// ParseKind validates an export kind taken from a URL or flag
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHistorical, KindMetrics:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown export kind %q", s)
}

// ContentType of every export
const ContentType = "text/csv"

// File is a named export payload
type File struct {
	Name string
	Kind Kind
	Data []byte
}

// HistoricalFileName returns "{SYMBOL}_historical_data.csv"
func HistoricalFileName(symbol string) string {
	return symbol + "_historical_data.csv"
}

// MetricsFileName returns "{SYMBOL}_financial_metrics.csv"
func MetricsFileName(symbol string) string {
	return symbol + "_financial_metrics.csv"
}

// FileName returns the download name for a kind
func FileName(kind Kind, symbol string) string {
	if kind == KindMetrics {
		return MetricsFileName(symbol)
	}
	return HistoricalFileName(symbol)
}

// WriteHistorical writes the historical table in display order
func WriteHistorical(w io.Writer, table historical.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historical.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetrics writes the metrics table
func WriteMetrics(w io.Writer, table metrics.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Metric", "Value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table {
		if err := cw.Write([]string{row.Metric, row.Value}); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", row.Metric, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// HistoricalFile renders the historical export for symbol
func HistoricalFile(symbol string, table historical.Table) (File, error) {
	var buf bytes.Buffer
	if err := WriteHistorical(&buf, table); err != nil {
		return File{}, err
	}
	return File{Name: HistoricalFileName(symbol), Kind: KindHistorical, Data: buf.Bytes()}, nil
}

// MetricsFile renders the metrics export for symbol
func MetricsFile(symbol string, table metrics.Table) (File, error) {
	var buf bytes.Buffer
	if err := WriteMetrics(&buf, table); err != nil {
		return File{}, err
	}
	return File{Name: MetricsFileName(symbol), Kind: KindMetrics, Data: buf.Bytes()}, nil
}

// ReadHistorical parses a historical export back into rows
func ReadHistorical(r io.Reader) (historical.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	table := make(historical.Table, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(historical.Columns) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", i+2, len(historical.Columns), len(rec))
		}

		row := historical.Row{Date: rec[0]}
		prices := []*float64{&row.Open, &row.High, &row.Low, &row.Close}
		for j, dst := range prices {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s: %w", i+2, historical.Columns[j+1], err)
			}
			*dst = v
		}
		vol, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid Volume: %w", i+2, err)
		}
		row.Volume = vol
		table = append(table, row)
	}

	return table, nil
}
