package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/toursearch/internal/application/services"
	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// SessionHandler exposes search sessions over HTTP
type SessionHandler struct {
	sessions *services.SessionManager
	logger   zerolog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionManager, logger *zerolog.Logger) *SessionHandler {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   l.With().Str("component", "session_handler").Logger(),
	}
}

type sessionResponse struct {
	ID   string               `json:"id"`
	View services.SessionView `json:"view"`
}

type selectRequest struct {
	Item *entities.GeoItem `json:"item"`
}

type searchRequest struct {
	CountryID string `json:"countryId"`
}

// CreateSession starts a new search session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()
	respondWithJSON(w, http.StatusCreated, sessionResponse{ID: session.ID(), View: session.View()})
}

// GetSession returns the session's current view
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{ID: session.ID(), View: session.View()})
}

// DeleteSession closes a session
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Remove(r.PathValue("id")) {
		respondWithError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suggestions types q into the destination input, or opens the suggestion
// list when q is absent
// GET /api/sessions/{id}/suggestions?q=
func (h *SessionHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	suggestions := session.Suggestions()
	query := r.URL.Query()
	if query.Has("q") {
		suggestions.Type(r.Context(), query.Get("q"))
	} else {
		suggestions.Open(r.Context())
	}
	respondWithJSON(w, http.StatusOK, suggestions.State())
}

// Select picks a suggestion; a null item clears the selection
// PUT /api/sessions/{id}/selection
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Item != nil && !req.Item.Type.Valid() {
		respondWithError(w, http.StatusBadRequest, "item type must be country, city or hotel")
		return
	}

	session.Suggestions().Select(req.Item)
	respondWithJSON(w, http.StatusOK, session.Suggestions().State())
}

// Search submits a search for the body's country, or for the country of the
// selected suggestion when the body names none
// POST /api/sessions/{id}/search
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CountryID != "" {
		session.Search(req.CountryID)
	} else if _, ok := session.SubmitSelection(); !ok {
		respondWithError(w, http.StatusBadRequest, "select a destination first")
		return
	}
	respondWithJSON(w, http.StatusAccepted, sessionResponse{ID: session.ID(), View: session.View()})
}

// Cards returns the filtered tours joined with hotel metadata
// GET /api/sessions/{id}/cards
func (h *SessionHandler) Cards(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, session.Cards(r.Context()))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.SearchSession, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return nil, false
	}
	session, ok := h.sessions.Get(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}
