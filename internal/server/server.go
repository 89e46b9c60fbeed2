// Package server provides the reference notification backend: the
// paginated data service over HTTP and the push event channel over
// WebSocket, backed by the sqlite store.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AzerQ/sed-notifications/internal/logging"
	"github.com/AzerQ/sed-notifications/internal/store"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	AllowAllOrigins bool
}

// Server serves the data service contract and the push channel.
type Server struct {
	cfg        Config
	store      *store.Store
	hub        *hub
	logger     logging.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given store.
func New(cfg Config, st *store.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:    cfg,
		store:  st,
		hub:    newHub(logger),
		logger: logger.With("component", "server"),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler, usable directly in tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen on %s: %w", s.cfg.Addr, err)
	}
	return nil
}

// Shutdown stops the server, disconnecting all push clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", s.handleListAll)
		r.Post("/", s.handleCreate)
		r.Get("/unread", s.handleListUnread)
		r.Get("/unread/count", s.handleUnreadCount)
		r.Post("/read", s.handleMarkManyRead)
		r.Post("/{id}/read", s.handleMarkRead)
		r.Post("/{id}/status", s.handleSetStatus)
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/toast", s.handleGetToastSettings)
		r.Put("/toast", s.handleSaveToastSettings)
		r.Get("/user", s.handleGetUserSettings)
		r.Put("/user", s.handleSaveUserSettings)
	})

	r.Get("/ws/notifications", s.hub.handleWS)

	return r
}
