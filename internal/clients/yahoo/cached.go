package yahoo

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/clientdata"
	"github.com/aristath/stockdash/internal/domain"
)

// CachedProvider serves repeated requests from the client data cache.
// Only successful, non-empty responses are stored; errors always reach the caller.
// Cache failures are logged and the inner provider is used instead.
type CachedProvider struct {
	inner domain.MarketDataProvider
	repo  *clientdata.Repository
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedProvider wraps inner. A non-positive ttl disables caching.
func NewCachedProvider(inner domain.MarketDataProvider, repo *clientdata.Repository, ttl time.Duration, log zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		repo:  repo,
		ttl:   ttl,
		log:   log.With().Str("client", "yahoo-cache").Logger(),
	}
}

func historyKey(symbol string, period domain.Period) string {
	return symbol + "|" + string(period)
}

// GetHistory returns cached bars for (symbol, period) when fresh.
// Bar dates are returned as UTC calendar dates whether or not the cache was hit.
func (p *CachedProvider) GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.PriceHistory, error) {
	if p.ttl <= 0 {
		return p.inner.GetHistory(ctx, symbol, period)
	}

	key := historyKey(symbol, period)

	var cached domain.PriceHistory
	found, err := p.repo.GetIfFresh(clientdata.TableHistory, key, &cached)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("History cache read failed")
	} else if found && len(cached) > 0 {
		p.log.Debug().Str("key", key).Msg("History cache hit")
		return cached, nil
	}

	history, err := p.inner.GetHistory(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	// msgpack restores times in UTC, so hits and misses must both carry UTC calendar dates
	history = history.WithCalendarDates()

	if len(history) > 0 {
		if err := p.repo.Store(clientdata.TableHistory, key, history, p.ttl); err != nil {
			p.log.Warn().Err(err).Str("key", key).Msg("Failed to cache history")
		}
	}

	return history, nil
}

// GetMetadata returns cached metadata for symbol when fresh
func (p *CachedProvider) GetMetadata(ctx context.Context, symbol string) (domain.Metadata, error) {
	if p.ttl <= 0 {
		return p.inner.GetMetadata(ctx, symbol)
	}

	var cached map[string]interface{}
	found, err := p.repo.GetIfFresh(clientdata.TableMetadata, symbol, &cached)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("Metadata cache read failed")
	} else if found && len(cached) > 0 {
		p.log.Debug().Str("symbol", symbol).Msg("Metadata cache hit")
		return domain.MetadataFromMap(cached), nil
	}

	meta, err := p.inner.GetMetadata(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if raw := meta.Map(); len(raw) > 0 {
		if err := p.repo.Store(clientdata.TableMetadata, symbol, raw, p.ttl); err != nil {
			p.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache metadata")
		}
	}

	return meta, nil
}
