package yahoo

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/aristath/stockdash/internal/domain"
)

// NativeClient implements domain.MarketDataProvider using the go-yfinance library.
// It exposes fewer metadata fields than Client; missing ones render as N/A.
type NativeClient struct {
	log zerolog.Logger
}

// NewNativeClient creates a new native Yahoo Finance client
func NewNativeClient(log zerolog.Logger) *NativeClient {
	return &NativeClient{
		log: log.With().Str("client", "yahoo-native").Logger(),
	}
}

// GetHistory fetches adjusted daily OHLCV bars
func (c *NativeClient) GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     string(period),
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	history := make(domain.PriceHistory, 0, len(bars))
	for _, bar := range bars {
		history = append(history, domain.Bar{
			Date:   domain.CalendarDate(bar.Date),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	c.log.Debug().Str("symbol", symbol).Int("bars", len(history)).Msg("Fetched history")
	return history, nil
}

// GetMetadata maps go-yfinance Info and Quote onto provider field names
func (c *NativeClient) GetMetadata(ctx context.Context, symbol string) (domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}
	if info == nil {
		return domain.Metadata{}, nil
	}

	meta := domain.Metadata{}
	setNonZero(meta, "currentPrice", info.CurrentPrice)
	setNonZero(meta, "previousClose", info.RegularMarketPreviousClose)
	setNonZero(meta, "regularMarketPreviousClose", info.RegularMarketPreviousClose)
	setNonZero(meta, "trailingPE", info.TrailingPE)
	setNonZero(meta, "forwardPE", info.ForwardPE)
	setNonZero(meta, "pegRatio", info.PegRatio)
	setNonZero(meta, "priceToBook", info.PriceToBook)
	setNonZero(meta, "revenueGrowth", info.RevenueGrowth)
	setNonZero(meta, "earningsGrowth", info.EarningsGrowth)
	setNonZero(meta, "profitMargins", info.ProfitMargins)
	setNonZero(meta, "operatingMargins", info.OperatingMargins)
	setNonZero(meta, "returnOnEquity", info.ReturnOnEquity)
	setNonZero(meta, "debtToEquity", info.DebtToEquity)
	setNonZero(meta, "currentRatio", info.CurrentRatio)
	setNonZero(meta, "dividendYield", info.DividendYield)
	setNonZero(meta, "fiveYearAvgDividendYield", info.FiveYearAvgDividendYield)
	setNonZero(meta, "marketCap", float64(info.MarketCap))

	setText(meta, "industry", info.Industry)
	setText(meta, "country", info.Country)
	setText(meta, "exchange", info.Exchange)
	setText(meta, "longName", info.LongName)
	setText(meta, "shortName", info.ShortName)
	setText(meta, "quoteType", info.QuoteType)

	// Quote carries the live price when Info has none
	if _, ok := meta["currentPrice"]; !ok {
		if quote, err := t.Quote(); err == nil && quote != nil {
			switch {
			case quote.RegularMarketPrice > 0:
				setNonZero(meta, "currentPrice", quote.RegularMarketPrice)
			case quote.PreMarketPrice > 0:
				setNonZero(meta, "currentPrice", quote.PreMarketPrice)
			case quote.PostMarketPrice > 0:
				setNonZero(meta, "currentPrice", quote.PostMarketPrice)
			}
		} else if err != nil {
			c.log.Debug().Err(err).Str("symbol", symbol).Msg("Quote unavailable")
		}
	}

	return meta, nil
}

func setNonZero(meta domain.Metadata, key string, v float64) {
	if v != 0 {
		meta.Set(key, domain.Number(v))
	}
}

func setText(meta domain.Metadata, key, v string) {
	if v != "" {
		meta.Set(key, domain.String(v))
	}
}
