package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth handles health check requests. The cache database must answer a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "stockdash",
	}

	if err := s.cacheDB.QuickCheck(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Cache database health check failed")
		status = http.StatusServiceUnavailable
		response["status"] = "degraded"
		response["error"] = err.Error()
	}

	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
