// Package acquisition fetches price history and company metadata for one symbol.
package acquisition

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
)

// Service runs one provider round trip per call. It never retries.
type Service struct {
	provider domain.MarketDataProvider
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a new acquisition service
func NewService(provider domain.MarketDataProvider, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		now:      time.Now,
		log:      log.With().Str("service", "acquisition").Logger(),
	}
}

// Fetch returns a snapshot holding both history and metadata, or an error.
// Errors are ErrEmptySymbol, *ProviderError or *NotFoundError; a partial snapshot is never returned.
// An empty history short-circuits before metadata is requested.
func (s *Service) Fetch(ctx context.Context, symbol string, period domain.Period) (*domain.Snapshot, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if period == "" {
		period = domain.DefaultPeriod
	}

	log := s.log.With().Str("symbol", symbol).Str("period", string(period)).Logger()
	start := s.now()

	history, err := s.provider.GetHistory(ctx, symbol, period)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch price history")
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}
	if len(history) == 0 {
		log.Info().Msg("Provider returned no price history")
		return nil, &NotFoundError{Symbol: symbol}
	}

	metadata, err := s.provider.GetMetadata(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch company metadata")
		return nil, &ProviderError{Symbol: symbol, Err: err}
	}
	if metadata == nil {
		metadata = domain.Metadata{}
	}

	log.Debug().
		Int("bars", len(history)).
		Int("fields", len(metadata)).
		Dur("duration", s.now().Sub(start)).
		Msg("Fetched snapshot")

	return &domain.Snapshot{
		FetchedAt: s.now(),
		Symbol:    symbol,
		Period:    period,
		History:   history,
		Metadata:  metadata,
	}, nil
}
