package acquisition

import (
	"errors"
	"fmt"
)

// ErrEmptySymbol is returned when the normalised symbol is empty
var ErrEmptySymbol = errors.New("please enter a stock symbol")

// ProviderError wraps a failure reported by the market data provider
type ProviderError struct {
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("Error fetching data: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NotFoundError means the provider returned no price history for the symbol
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No data found for symbol '%s'. Please check the symbol and try again.", e.Symbol)
}
