// Package handlers provides HTTP handlers for the dashboard session.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/modules/export"
	"github.com/aristath/stockdash/internal/session"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	service       *dashboard.Service
	store         *session.Store
	archiver      *export.Archiver
	defaultSymbol string
	defaultPeriod domain.Period
	log           zerolog.Logger
}

// NewHandler creates a new dashboard handler. archiver may be nil when object storage is not configured.
func NewHandler(
	service *dashboard.Service,
	store *session.Store,
	archiver *export.Archiver,
	defaultSymbol string,
	defaultPeriod domain.Period,
	log zerolog.Logger,
) *Handler {
	if defaultPeriod == "" {
		defaultPeriod = domain.DefaultPeriod
	}
	return &Handler{
		service:       service,
		store:         store,
		archiver:      archiver,
		defaultSymbol: defaultSymbol,
		defaultPeriod: defaultPeriod,
		log:           log.With().Str("handler", "dashboard").Logger(),
	}
}

// run executes one pass for the request's session
func (h *Handler) run(ctx context.Context, id string, action dashboard.Action) *dashboard.Outcome {
	var out *dashboard.Outcome
	h.store.Update(id, func(prev session.State) session.State {
		next, o := h.service.Handle(ctx, prev, action)
		out = o
		return next
	})
	return out
}

// periodOr returns period, or the configured default when none was chosen
func (h *Handler) periodOr(period string) string {
	if strings.TrimSpace(period) == "" {
		return string(h.defaultPeriod)
	}
	return period
}

// HandleGetPeriods handles GET /api/periods
func (h *Handler) HandleGetPeriods(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"options":        domain.PeriodOptions,
		"default":        h.defaultPeriod,
		"default_symbol": h.defaultSymbol,
	}))
}

// HandleLoad handles GET /api/dashboard?symbol=&period=
func (h *Handler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	id := h.store.FromRequest(w, r)

	symbol := h.defaultSymbol
	if q := r.URL.Query(); q.Has("symbol") {
		symbol = q.Get("symbol")
	}

	out := h.run(r.Context(), id, dashboard.Action{
		Kind:   dashboard.ActionLoad,
		Symbol: symbol,
		Period: h.periodOr(r.URL.Query().Get("period")),
	})
	h.writeOutcome(w, out)
}

// HandleFetch handles POST /api/dashboard/fetch
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	id := h.store.FromRequest(w, r)

	var req struct {
		Symbol string `json:"symbol"`
		Period string `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, envelope(map[string]interface{}{
			"error": dashboard.UserError{Kind: dashboard.ErrorInvalid, Message: "Invalid request body"},
		}))
		return
	}

	out := h.run(r.Context(), id, dashboard.Action{
		Kind:   dashboard.ActionFetch,
		Symbol: req.Symbol,
		Period: h.periodOr(req.Period),
	})
	h.writeOutcome(w, out)
}

// HandleExport handles GET /api/dashboard/export/{file}, where file is historical.csv or metrics.csv
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	kind, err := export.ParseKind(strings.TrimSuffix(name, ".csv"))
	if err != nil || !strings.HasSuffix(name, ".csv") {
		http.Error(w, "Unknown export", http.StatusNotFound)
		return
	}

	id := h.store.FromRequest(w, r)
	file, err := h.service.Export(h.store.Get(id), kind)
	if errors.Is(err, dashboard.ErrNothingToExport) {
		http.Error(w, "Nothing to export yet", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to build export")
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.log.Error().Err(err).Msg("Failed to write export")
	}
}

// HandleArchive handles POST /api/dashboard/export/{kind}/archive
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		http.Error(w, "Export archive is not configured", http.StatusServiceUnavailable)
		return
	}

	kind, err := export.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	id := h.store.FromRequest(w, r)
	state := h.store.Get(id)
	file, err := h.service.Export(state, kind)
	if errors.Is(err, dashboard.ErrNothingToExport) {
		http.Error(w, "Nothing to export yet", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to build export")
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	archive, err := h.archiver.Archive(r.Context(), state.Symbol(), file)
	if err != nil {
		h.log.Error().Err(err).Str("file", file.Name).Msg("Failed to archive export")
		http.Error(w, "Failed to archive export", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(archive))
}

// HandleListArchives handles GET /api/dashboard/archives?symbol=
func (h *Handler) HandleListArchives(w http.ResponseWriter, r *http.Request) {
	if h.archiver == nil {
		http.Error(w, "Export archive is not configured", http.StatusServiceUnavailable)
		return
	}

	symbol := domain.NormalizeSymbol(r.URL.Query().Get("symbol"))
	objects, err := h.archiver.List(r.Context(), symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to list archives")
		http.Error(w, "Failed to list archives", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"symbol":   symbol,
		"archives": objects,
		"count":    len(objects),
	}))
}

// writeOutcome writes a pass result. Invalid input is a 400; provider and
// not-found errors are reported inline with a 200.
func (h *Handler) writeOutcome(w http.ResponseWriter, out *dashboard.Outcome) {
	status := http.StatusOK
	if out.Error != nil && out.Error.Kind == dashboard.ErrorInvalid {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, envelope(out))
}

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
