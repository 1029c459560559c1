package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"bookshelf/internal/usertoken"
	"bookshelf/internal/util"
	"bookshelf/pkg/domain"
	"bookshelf/services/stats/internal/app"
	"bookshelf/services/stats/internal/authclient"
	"bookshelf/services/stats/internal/bookclient"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App   *app.App
	Auth  *authclient.Client
	Books *bookclient.Client
}

// Server exposes HTTP endpoints for the stats service.
type Server struct {
	app   *app.App
	auth  *authclient.Client
	books *bookclient.Client
	mux   *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:   cfg.App,
		auth:  cfg.Auth,
		books: cfg.Books,
		mux:   http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in ambient middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("stats", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/stats", s.withUser(s.handleStats))
	s.mux.Handle("/stats/view/", s.withUser(s.handleRecordView))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userHandler func(http.ResponseWriter, *http.Request, string, domain.Identity)

// withUser delegates token validation to the auth service. The raw token is
// passed through so the existence check can forward the caller's identity.
func (s *Server) withUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			writeError(w, http.StatusInternalServerError, "auth client not configured")
			return
		}
		token, ok := usertoken.BearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		identity, err := s.auth.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, token, identity)
	})
}

// POST /stats/view/{book_id}
func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request, token string, _ domain.Identity) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	bookID := strings.TrimPrefix(r.URL.Path, "/stats/view/")
	if bookID == "" || strings.Contains(bookID, "/") {
		http.NotFound(w, r)
		return
	}
	if s.books == nil {
		writeError(w, http.StatusInternalServerError, "book client not configured")
		return
	}
	if _, err := s.books.GetBook(token, bookID); err != nil {
		writeExistenceError(w, err)
		return
	}
	if _, err := s.app.RecordView(r.Context(), bookID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "view recorded"})
}

// GET /stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, _ string, _ domain.Identity) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	counts, err := s.app.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// writeExistenceError maps existence-check failures. An APIError means the
// book service answered and the book cannot be viewed (absent, malformed id,
// or the token was rejected there); any other error means the dependency
// itself is unreachable.
func writeExistenceError(w http.ResponseWriter, err error) {
	if _, ok := err.(*bookclient.APIError); ok {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	writeError(w, http.StatusBadGateway, "book service unavailable")
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
