package charts

// Figure is a Plotly figure: traces plus layout, ready for Plotly.newPlot
type Figure struct {
	Data   []map[string]interface{} `json:"data"`
	Layout map[string]interface{}   `json:"layout"`
}

// Figure converts the specification into Plotly's figure JSON shape.
// The price panel uses axes x/y and the volume panel x2/y2, sharing the date axis.
func (c ChartSpec) Figure() Figure {
	n := len(c.Price.Candles)
	dates := make([]string, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i, cd := range c.Price.Candles {
		dates[i] = cd.Time
		open[i] = cd.Open
		high[i] = cd.High
		low[i] = cd.Low
		closes[i] = cd.Close
	}

	data := []map[string]interface{}{
		{
			"type":  "candlestick",
			"name":  "Price",
			"x":     dates,
			"open":  open,
			"high":  high,
			"low":   low,
			"close": closes,
			"xaxis": "x",
			"yaxis": "y",
		},
	}

	for _, o := range c.Price.Overlays {
		x := make([]string, len(o.Points))
		y := make([]*float64, len(o.Points))
		for i, p := range o.Points {
			x[i] = p.Time
			y[i] = p.Value
		}
		data = append(data, map[string]interface{}{
			"type":  "scatter",
			"mode":  "lines",
			"name":  o.Name,
			"x":     x,
			"y":     y,
			"line":  map[string]interface{}{"color": o.Color, "width": o.Width},
			"xaxis": "x",
			"yaxis": "y",
		})
	}

	vx := make([]string, len(c.Volume.Bars))
	vy := make([]int64, len(c.Volume.Bars))
	colors := make([]string, len(c.Volume.Bars))
	for i, b := range c.Volume.Bars {
		vx[i] = b.Time
		vy[i] = b.Volume
		colors[i] = b.Color
	}
	data = append(data, map[string]interface{}{
		"type":    "bar",
		"name":    "Volume",
		"x":       vx,
		"y":       vy,
		"marker":  map[string]interface{}{"color": colors},
		"opacity": c.Volume.Opacity,
		"xaxis":   "x2",
		"yaxis":   "y2",
	})

	return Figure{Data: data, Layout: c.plotlyLayout()}
}

// rowDomains splits the vertical space like a two-row subplot grid.
// Returns [bottom, top] for the price row and the volume row.
func (l Layout) rowDomains() (price, volume [2]float64) {
	usable := 1 - l.VerticalSpacing
	volumeTop := usable * l.RowHeights[1]
	return [2]float64{volumeTop + l.VerticalSpacing, 1}, [2]float64{0, volumeTop}
}

func (c ChartSpec) plotlyLayout() map[string]interface{} {
	l := c.Layout
	priceDomain, volumeDomain := l.rowDomains()

	title := func(text string, y float64) map[string]interface{} {
		return map[string]interface{}{
			"text":      text,
			"x":         0.5,
			"y":         y,
			"xref":      "paper",
			"yref":      "paper",
			"xanchor":   "center",
			"yanchor":   "bottom",
			"showarrow": false,
		}
	}

	return map[string]interface{}{
		"height":        l.Height,
		"showlegend":    l.ShowLegend,
		"plot_bgcolor":  l.Background,
		"paper_bgcolor": l.Background,
		"xaxis": map[string]interface{}{
			"anchor":         "y",
			"matches":        "x2",
			"showticklabels": false,
			"rangeslider":    map[string]interface{}{"visible": l.RangeSlider},
		},
		"xaxis2": map[string]interface{}{
			"anchor": "y2",
			"title":  map[string]interface{}{"text": l.XAxisTitle},
		},
		"yaxis": map[string]interface{}{
			"anchor": "x",
			"domain": priceDomain,
			"title":  map[string]interface{}{"text": l.PriceAxisTitle},
		},
		"yaxis2": map[string]interface{}{
			"anchor": "x2",
			"domain": volumeDomain,
			"title":  map[string]interface{}{"text": l.VolumeAxisTitle},
		},
		"annotations": []map[string]interface{}{
			title(c.Price.Title, priceDomain[1]),
			title(c.Volume.Title, volumeDomain[1]),
		},
	}
}
