package server

import (
	"context"
	"net/http"
	"time"

	"github.com/amkolotov/users/internal/auth"
	"github.com/amkolotov/users/internal/config"
	"github.com/amkolotov/users/internal/http/handlers"
	"github.com/amkolotov/users/internal/logging"
	"github.com/amkolotov/users/internal/middleware"
	"github.com/amkolotov/users/internal/session"
	"github.com/amkolotov/users/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New builds the auth components around the store and wires every handler.
// All dependencies are constructed here and passed down explicitly; nothing
// is process-global.
func New(cfg config.Config, store storage.UserStore, log logging.Logger) *Server {
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure)
	policy := auth.NewPolicy(store)
	guard := auth.NewGuard(sessions, policy)
	authn := auth.NewAuthenticator(store)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(authn, sessions, guard, log).Register(mux)
	handlers.NewUserHandler(store, guard, log).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(log, mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
