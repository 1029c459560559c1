package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"bookshelf/internal/usertoken"
	"bookshelf/internal/util"
	"bookshelf/pkg/domain"
	"bookshelf/services/book/internal/app"
	"bookshelf/services/book/internal/authclient"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App  *app.App
	Auth *authclient.Client
}

// Server exposes HTTP endpoints for the book service.
type Server struct {
	app  *app.App
	auth *authclient.Client
	mux  *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:  cfg.App,
		auth: cfg.Auth,
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in ambient middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("book", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/books", s.withUser(s.handleBooks))
	s.mux.Handle("/books/", s.withUser(s.handleBookByID))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userHandler func(http.ResponseWriter, *http.Request, domain.Identity)

// withUser delegates token validation to the auth service before any store
// access happens.
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
		next(w, r, identity)
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddBook(w, r)
	case http.MethodGet:
		s.handleListBooks(w)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	book, err := s.app.AddBook(req.Title, req.Author, req.Year)
	if err != nil {
		if errors.Is(err, app.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "book added successfully",
		"id":      book.ID,
	})
}

func (s *Server) handleListBooks(w http.ResponseWriter) {
	books, err := s.app.ListBooks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// /books/{id}
func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request, _ domain.Identity) {
	id := strings.TrimPrefix(r.URL.Path, "/books/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		book, err := s.app.GetBook(id)
		if err != nil {
			writeBookError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodDelete:
		if err := s.app.DeleteBook(id); err != nil {
			writeBookError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
	default:
		methodNotAllowed(w)
	}
}

func writeBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidBookID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrBookNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type addBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
