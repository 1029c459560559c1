package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bookshelf/internal/ratelimit"
	"bookshelf/internal/usertoken"
	"bookshelf/internal/util"
	"bookshelf/pkg/auth"
	"bookshelf/services/auth/internal/app"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// Optional redis-backed limiters keyed by client IP. Nil disables.
	RegisterLimiter *ratelimit.FixedWindowLimiter
	LoginLimiter    *ratelimit.FixedWindowLimiter
	TrustedProxies  *util.TrustedProxies
}

// Server exposes HTTP endpoints for the auth service.
type Server struct {
	app             *app.App
	registerLimiter *ratelimit.FixedWindowLimiter
	loginLimiter    *ratelimit.FixedWindowLimiter
	trustedProxies  *util.TrustedProxies
	mux             *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:             cfg.App,
		registerLimiter: cfg.RegisterLimiter,
		loginLimiter:    cfg.LoginLimiter,
		trustedProxies:  cfg.TrustedProxies,
		mux:             http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in ambient middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("auth", util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/register", s.handleRegister)
	s.mux.HandleFunc("/login", s.handleLogin)
	s.mux.HandleFunc("/verify", s.handleVerify)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allow(s.registerLimiter, r) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := s.app.Register(req.Username, req.Password, req.Email); err != nil {
		writeRegisterError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allow(s.loginLimiter, r) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleVerify is the endpoint peer services delegate to. Its response shape
// is part of the cross-service contract: {valid, user_id, username} on
// success, {valid:false, message} on failure.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, ok := usertoken.BearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Valid: false, Message: "token is missing"})
		return
	}
	identity, err := s.app.VerifyToken(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, verifyResponse{Valid: false, Message: app.ErrInvalidToken.Error()})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Valid:    true,
		UserID:   identity.UserID,
		Username: identity.Username,
	})
}

func (s *Server) allow(limiter *ratelimit.FixedWindowLimiter, r *http.Request) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(util.ClientIP(r, s.trustedProxies))
}

func writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrMissingFields),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, app.ErrUsernameExists),
		errors.Is(err, app.ErrEmailExists):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type verifyResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
