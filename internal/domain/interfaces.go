package domain

import "context"

// MarketDataProvider fetches price history and company metadata for a ticker.
// Implementations perform a single attempt; retries are left to the transport.
type MarketDataProvider interface {
	GetHistory(ctx context.Context, symbol string, period Period) (PriceHistory, error)
	GetMetadata(ctx context.Context, symbol string) (Metadata, error)
}
