// Package charts builds the declarative two-panel price chart for a price history.
package charts

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/pkg/formulas"
)

const dateLayout = "2006-01-02"

// Direction classifies a bar for volume coloring
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Color returns the bar color for the direction
func (d Direction) Color() string {
	if d == DirectionDown {
		return "red"
	}
	return "green"
}

// ClassifyBar returns down when the bar closed below its open, up otherwise.
// It looks at nothing but the bar itself.
func ClassifyBar(b domain.Bar) Direction {
	if b.IsDown() {
		return DirectionDown
	}
	return DirectionUp
}

// ChartDataPoint represents a single point on a line overlay.
// Value is nil before the first full window.
type ChartDataPoint struct {
	Time  string   `json:"time"` // YYYY-MM-DD format
	Value *float64 `json:"value"`
}

// Candle is one OHLC point of the price panel
type Candle struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Overlay is a moving-average line drawn on the price panel
type Overlay struct {
	Name   string           `json:"name"`
	Window int              `json:"window"`
	Color  string           `json:"color"`
	Width  float64          `json:"width"`
	Points []ChartDataPoint `json:"points"`
}

// VolumeBar is one bar of the volume panel
type VolumeBar struct {
	Time      string    `json:"time"`
	Volume    int64     `json:"volume"`
	Direction Direction `json:"direction"`
	Color     string    `json:"color"`
}

// PricePanel is the upper panel: candles plus any available overlays
type PricePanel struct {
	Title    string    `json:"title"`
	Candles  []Candle  `json:"candles"`
	Overlays []Overlay `json:"overlays"`
}

// VolumePanel is the lower panel
type VolumePanel struct {
	Title   string      `json:"title"`
	Bars    []VolumeBar `json:"bars"`
	Opacity float64     `json:"opacity"`
}

// Layout holds the presentation parameters shared by both panels
type Layout struct {
	Height          int        `json:"height"`
	ShowLegend      bool       `json:"show_legend"`
	RangeSlider     bool       `json:"range_slider"`
	RowHeights      [2]float64 `json:"row_heights"`
	VerticalSpacing float64    `json:"vertical_spacing"`
	XAxisTitle      string     `json:"x_axis_title"`
	PriceAxisTitle  string     `json:"price_axis_title"`
	VolumeAxisTitle string     `json:"volume_axis_title"`
	Background      string     `json:"background"`
}

// ChartSpec is handed to the renderer as-is
type ChartSpec struct {
	Price  PricePanel  `json:"price"`
	Volume VolumePanel `json:"volume"`
	Layout Layout      `json:"layout"`
}

// OverlayStyle configures one moving-average overlay
type OverlayStyle struct {
	Name   string
	Window int
	Color  string
	Width  float64
}

// MovingAverages are drawn when the history has at least Window bars
var MovingAverages = []OverlayStyle{
	{Name: "20-Day MA", Window: 20, Color: "orange", Width: 1},
	{Name: "50-Day MA", Window: 50, Color: "blue", Width: 1},
}

// DefaultLayout matches the dashboard's chart dimensions
func DefaultLayout() Layout {
	return Layout{
		Height:          600,
		ShowLegend:      true,
		RangeSlider:     false,
		RowHeights:      [2]float64{0.7, 0.3},
		VerticalSpacing: 0.03,
		XAxisTitle:      "Date",
		PriceAxisTitle:  "Price ($)",
		VolumeAxisTitle: "Volume",
		Background:      "white",
	}
}

// Service builds chart specifications
type Service struct {
	log zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "charts").Logger(),
	}
}

// BuildChart converts a price history into the two-panel chart specification
func (s *Service) BuildChart(history domain.PriceHistory) ChartSpec {
	spec := ChartSpec{
		Price: PricePanel{
			Title:    "Stock Price",
			Candles:  make([]Candle, 0, len(history)),
			Overlays: []Overlay{},
		},
		Volume: VolumePanel{
			Title:   "Volume",
			Bars:    make([]VolumeBar, 0, len(history)),
			Opacity: 0.7,
		},
		Layout: DefaultLayout(),
	}

	for _, b := range history {
		t := b.Date.Format(dateLayout)
		spec.Price.Candles = append(spec.Price.Candles, Candle{
			Time:  t,
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		})

		dir := ClassifyBar(b)
		spec.Volume.Bars = append(spec.Volume.Bars, VolumeBar{
			Time:      t,
			Volume:    b.Volume,
			Direction: dir,
			Color:     dir.Color(),
		})
	}

	closes := history.Closes()
	for _, style := range MovingAverages {
		series := formulas.SMASeries(closes, style.Window)
		if series == nil {
			s.log.Debug().
				Int("window", style.Window).
				Int("bars", len(history)).
				Msg("Not enough bars for moving average")
			continue
		}
		spec.Price.Overlays = append(spec.Price.Overlays, Overlay{
			Name:   style.Name,
			Window: style.Window,
			Color:  style.Color,
			Width:  style.Width,
			Points: toPoints(spec.Price.Candles, series),
		})
	}

	return spec
}

func toPoints(candles []Candle, series []float64) []ChartDataPoint {
	points := make([]ChartDataPoint, len(series))
	for i, v := range series {
		points[i].Time = candles[i].Time
		if math.IsNaN(v) {
			continue
		}
		val := v
		points[i].Value = &val
	}
	return points
}
