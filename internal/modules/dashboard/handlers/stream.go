package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/stockdash/internal/domain"
	"github.com/aristath/stockdash/internal/modules/dashboard"
	"github.com/aristath/stockdash/internal/session"
)

const wsWriteTimeout = 10 * time.Second

// streamMessage is sent to the browser over the dashboard socket
type streamMessage struct {
	Type    string             `json:"type"` // "status" or "outcome"
	Message string             `json:"message,omitempty"`
	Data    *dashboard.Outcome `json:"data,omitempty"`
}

// HandleStream handles GET /api/dashboard/ws. Each JSON action read from the
// socket runs one pass; the read loop guarantees one pass at a time.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	id := h.store.FromRequest(w, r)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	log := h.log.With().Str("session", id).Logger()
	log.Debug().Msg("Dashboard stream opened")

	ctx := r.Context()
	for {
		var action dashboard.Action
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				log.Debug().Msg("Dashboard stream closed")
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			log.Warn().Err(err).Msg("Failed to read dashboard action")
			conn.Close(websocket.StatusUnsupportedData, "invalid action")
			return
		}

		action.Period = h.periodOr(action.Period)

		var out *dashboard.Outcome
		var writeErr error
		h.store.Update(id, func(prev session.State) session.State {
			if willFetch(prev, action) {
				writeErr = h.send(ctx, conn, streamMessage{
					Type:    "status",
					Message: "Fetching data for " + domain.NormalizeSymbol(action.Symbol) + "...",
				})
			}
			next, o := h.service.Handle(ctx, prev, action)
			out = o
			return next
		})
		if writeErr == nil {
			writeErr = h.send(ctx, conn, streamMessage{Type: "outcome", Data: out})
		}
		if writeErr != nil {
			log.Warn().Err(writeErr).Msg("Failed to write to dashboard stream")
			return
		}
	}
}

func willFetch(prev session.State, action dashboard.Action) bool {
	switch action.Kind {
	case dashboard.ActionFetch:
		return true
	case dashboard.ActionLoad, "":
		return prev.Empty() && domain.NormalizeSymbol(action.Symbol) != ""
	}
	return false
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, msg)
}
