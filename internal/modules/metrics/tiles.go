package metrics

import (
	"github.com/aristath/stockdash/internal/domain"
)

// Tile is a headline figure shown above the chart
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Delta is empty unless the tile carries a change indicator
	Delta     string `json:"delta,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// PriceChange is the move from the previous close to the current price
type PriceChange struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
	Percent  float64 `json:"percent"`
}

// CalculatePriceChange compares the current price with the previous close.
// The change is zero unless both prices are known and non-zero.
func CalculatePriceChange(meta domain.Metadata) PriceChange {
	current, _ := truthyFloat(meta.First("currentPrice", "regularMarketPrice"))
	previous, _ := truthyFloat(meta.Get("previousClose"))

	pc := PriceChange{Current: current, Previous: previous}
	if current != 0 && previous != 0 {
		pc.Change = current - previous
		pc.Percent = PercentChange(current, previous)
	}
	return pc
}

// BuildTiles returns the five headline tiles: price, market cap, P/E, dividend yield, volume
func BuildTiles(meta domain.Metadata) []Tile {
	pc := CalculatePriceChange(meta)

	price := Tile{
		Label: "Current Price",
		Value: FormatPrice(meta.First("currentPrice", "regularMarketPrice")),
		Delta: FormatDelta(pc.Change, pc.Percent),
	}
	switch {
	case pc.Change > 0:
		price.Direction = "up"
	case pc.Change < 0:
		price.Direction = "down"
	}

	return []Tile{
		price,
		{Label: "Market Cap", Value: FormatLargeNumber(meta.Get("marketCap"))},
		{Label: "P/E Ratio", Value: FormatRatio(meta.Get("trailingPE"))},
		{Label: "Dividend Yield", Value: FormatPercent(meta.Get("dividendYield"))},
		{Label: "Volume", Value: FormatCount(meta.First("volume", "regularMarketVolume"))},
	}
}
