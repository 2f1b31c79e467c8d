// Package formulas holds the numeric series calculations behind the price chart.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// SMASeries calculates the rolling Simple Moving Average of closes with the given window.
//
// The result has the same length as closes. Positions before the first full window
// are NaN, never zero. A window that contains a NaN close yields NaN for that
// position only, so a single gap does not poison the rest of the series.
//
// Returns nil when there are fewer closes than the window (the series does not exist).
func SMASeries(closes []float64, window int) []float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}

	var out []float64
	if hasNaN(closes) {
		out = windowedMean(closes, window)
	} else {
		// talib fills the lookback with zeros
		out = talib.Sma(closes, window)
	}

	for i := 0; i < window-1 && i < len(out); i++ {
		out[i] = math.NaN()
	}

	return out
}

func windowedMean(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		w := closes[i-window+1 : i+1]
		if hasNaN(w) {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(w, nil)
	}
	return out
}

func hasNaN(data []float64) bool {
	for _, v := range data {
		if isNaN(v) {
			return true
		}
	}
	return false
}

func isNaN(f float64) bool {
	return math.IsNaN(f)
}
