package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the request/response dashboard routes under /api
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/periods", h.HandleGetPeriods)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.HandleLoad)
		r.Post("/fetch", h.HandleFetch)
		r.Get("/archives", h.HandleListArchives)

		r.Route("/export", func(r chi.Router) {
			r.Get("/{file}", h.HandleExport)
			r.Post("/{kind}/archive", h.HandleArchive)
		})
	})
}

// RegisterStreamRoutes registers long-lived routes. They must not sit behind a request timeout.
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/dashboard/ws", h.HandleStream)
}
