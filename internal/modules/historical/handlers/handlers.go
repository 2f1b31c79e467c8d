// Package handlers provides HTTP handlers for stateless historical price queries.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/historical"
	"github.com/aristath/stockdash/internal/modules/metrics"
)

const dateLayout = "2006-01-02"

// Handler handles historical data HTTP requests
type Handler struct {
	provider domain.MarketDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new historical data handler
func NewHandler(
	provider domain.MarketDataProvider,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "historical").Logger(),
	}
}

// loadHistory fetches the history for the request's symbol and period. It writes
// the error response itself and returns ok=false when the request cannot be served.
func (h *Handler) loadHistory(w http.ResponseWriter, r *http.Request, symbol string) (string, domain.Period, domain.PriceHistory, bool) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return "", "", nil, false
	}

	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", "", nil, false
	}

	history, err := h.provider.GetHistory(r.Context(), symbol, period)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get price history")
		http.Error(w, "Failed to get price history", http.StatusBadGateway)
		return "", "", nil, false
	}
	if len(history) == 0 {
		http.Error(w, "No data found for symbol '"+symbol+"'", http.StatusNotFound)
		return "", "", nil, false
	}

	return symbol, period, history, true
}

func parseLimit(r *http.Request, fallback int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			return parsedLimit
		}
	}
	return fallback
}

// HandleGetPrices handles GET /api/historical/{symbol}
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol, period, history, ok := h.loadHistory(w, r, symbol)
	if !ok {
		return
	}

	// Zero means the whole period
	rows := historical.BuildTable(history).Limit(parseLimit(r, 0))

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": symbol,
			"period": period,
			"prices": rows,
			"count":  len(rows),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetLatestPrice handles GET /api/historical/{symbol}/latest
func (h *Handler) HandleGetLatestPrice(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol, _, history, ok := h.loadHistory(w, r, symbol)
	if !ok {
		return
	}
	table := historical.BuildTable(history[len(history)-1:])

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": symbol,
			"price":  table[0],
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetDailyReturns handles GET /api/historical/{symbol}/returns
func (h *Handler) HandleGetDailyReturns(w http.ResponseWriter, r *http.Request, symbol string) {
	symbol, period, history, ok := h.loadHistory(w, r, symbol)
	if !ok {
		return
	}

	returns := calculateReturns(history, parseLimit(r, 100))

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"symbol":  symbol,
			"period":  period,
			"returns": returns,
			"count":   len(returns),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// DailyReturn is the close-to-close move into Date
type DailyReturn struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}

// calculateReturns returns up to limit close-to-close returns, newest first.
// It works on the provider's closes, not the rounded display values. Bars whose
// previous close is not positive are skipped.
func calculateReturns(history domain.PriceHistory, limit int) []DailyReturn {
	returns := make([]DailyReturn, 0, limit)

	for i := len(history) - 1; i > 0 && len(returns) < limit; i-- {
		previousPrice := history[i-1].Close
		if previousPrice <= 0 {
			continue
		}

		returns = append(returns, DailyReturn{
			Date:   history[i].Date.Format(dateLayout),
			Return: metrics.PercentChange(history[i].Close, previousPrice),
		})
	}

	return returns
}
