package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const heartbeatInterval = 30 * time.Second

// StreamSession pushes the session's view as Server-Sent Events after every
// change. Views a slow client did not read are replaced by newer ones.
// GET /api/sessions/{id}/stream
func (h *SessionHandler) StreamSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	views := session.Subscribe(r.Context())

	h.sendEvent(w, "connected", map[string]interface{}{
		"session_id": session.ID(),
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Str("session_id", session.ID()).Msg("client disconnected from session stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case view, ok := <-views:
			if !ok {
				h.sendEvent(w, "closed", map[string]interface{}{
					"session_id": session.ID(),
				})
				flusher.Flush()
				return
			}
			h.sendEvent(w, "view", view)
			flusher.Flush()
		}
	}
}

// sendEvent writes one SSE event
func (h *SessionHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
