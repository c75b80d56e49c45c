// Package server exposes the agenda over HTTP: a plain text rendering
// for terminals and dashboards, and a JSON projection for frontends.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/config"
	"github.com/coreassistant/planned/internal/planner"
)

const serviceName = "planned"

// Server serves the agenda endpoints.
type Server struct {
	cfg        *config.Config
	log        *zap.Logger
	planner    *planner.Planner
	indentStep int

	srv *http.Server
}

// New builds a server around a planner.
func New(cfg *config.Config, log *zap.Logger, p *planner.Planner) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log,
		planner:    p,
		indentStep: cfg.IndentStep,
	}
	s.srv = &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        s.Router(),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

// Router assembles the route tree with its middleware stack.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	if s.cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/agenda", s.handleAgendaText).Methods(http.MethodGet)
	r.HandleFunc("/agenda.json", s.handleAgendaJSON).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.FrontendURL},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_starting", zap.String("port", s.cfg.ServerPort))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
