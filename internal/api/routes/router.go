package routes

import (
	"net/http"

	"github.com/zatekoja/toursearch/internal/api/handlers"
	"github.com/zatekoja/toursearch/internal/api/middleware"
	"github.com/zatekoja/toursearch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	sessionHandler *handlers.SessionHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	sessionHandler *handlers.SessionHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		sessionHandler: sessionHandler,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Session endpoints
	r.mux.HandleFunc("POST /api/sessions", r.sessionHandler.CreateSession)
	r.mux.HandleFunc("GET /api/sessions/{id}", r.sessionHandler.GetSession)
	r.mux.HandleFunc("DELETE /api/sessions/{id}", r.sessionHandler.DeleteSession)
	r.mux.HandleFunc("GET /api/sessions/{id}/suggestions", r.sessionHandler.Suggestions)
	r.mux.HandleFunc("PUT /api/sessions/{id}/selection", r.sessionHandler.Select)
	r.mux.HandleFunc("POST /api/sessions/{id}/search", r.sessionHandler.Search)
	r.mux.HandleFunc("GET /api/sessions/{id}/cards", r.sessionHandler.Cards)
	r.mux.HandleFunc("GET /api/sessions/{id}/stream", r.sessionHandler.StreamSession)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so preflights never reach the handlers
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
