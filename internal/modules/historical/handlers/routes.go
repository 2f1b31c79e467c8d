package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all historical data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/historical/{symbol}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetPrices(w, r, chi.URLParam(r, "symbol"))
		})
		r.Get("/latest", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetLatestPrice(w, r, chi.URLParam(r, "symbol"))
		})
		r.Get("/returns", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGetDailyReturns(w, r, chi.URLParam(r, "symbol"))
		})
	})
}
