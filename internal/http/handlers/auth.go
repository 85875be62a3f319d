package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amkolotov/users/internal/auth"
	"github.com/amkolotov/users/internal/http/respond"
	"github.com/amkolotov/users/internal/logging"
	"github.com/amkolotov/users/internal/session"
)

// AuthHandler owns login, logout, and the whoami endpoint.
type AuthHandler struct {
	authn    *auth.Authenticator
	sessions *session.Manager
	guard    *auth.Guard
	log      logging.Logger
}

func NewAuthHandler(authn *auth.Authenticator, sessions *session.Manager, guard *auth.Guard, log logging.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, sessions: sessions, guard: guard, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /logout", h.handleLogout)
	mux.HandleFunc("GET /user", h.handleWhoami)
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "login and password are required")
		return
	}

	ok, err := h.authn.CheckCredentials(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if !ok {
		writeError(w, r, h.log, auth.ErrInvalidCredentials)
		return
	}

	if err := h.sessions.Remember(w, req.Login); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.Message(w, http.StatusOK, "you are logged in")
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequireAuthenticated(r); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.sessions.Forget(w)
	respond.Message(w, http.StatusOK, "you are logged out")
}

func (h *AuthHandler) handleWhoami(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.Identify(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if identity == "" {
		respond.Message(w, http.StatusUnauthorized, "you need to login")
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("Hello, %s!", identity))
}
