// Package server exposes the barometer over HTTP: the JSON API, PNG charts and
// server-rendered report pages.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/analytics"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/b1"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/dashboard"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Snapshots provides the snapshot currently served
type Snapshots interface {
	Current() *models.Snapshot
}

// Collector triggers a collection run. Start claims the collector before it
// returns and fails with a Conflict error while another run is in progress.
type Collector interface {
	Start(ctx context.Context) error
	Running() bool
}

// Deps are the services behind the handlers
type Deps struct {
	Analytics *analytics.Service
	Book      *b1.Book
	Snapshots Snapshots
	Collector Collector
	Views     *dashboard.Router
	Log       *logging.Logger
}

// Server is the HTTP front of the barometer
type Server struct {
	router    *chi.Mux
	deps      Deps
	templates *template.Template
	log       *logging.Logger

	// base context for work that outlives a request
	baseCtx context.Context
}

// New wires routes and middleware
func New(deps Deps) (*Server, error) {
	if deps.Book == nil {
		deps.Book = b1.Empty()
	}
	if deps.Views == nil {
		deps.Views = dashboard.DefaultRouter()
	}

	templates, err := template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}

	s := &Server{
		router:    chi.NewRouter(),
		deps:      deps,
		templates: templates,
		log:       deps.Log,
		baseCtx:   context.Background(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/roles", s.handleRoles)
		r.Get("/stats/{index}", s.handleRoleStats)
		r.Get("/overall-stats", s.handleOverallStats)
		r.Get("/b1/blocks", s.handleBlocks)
		r.Get("/b1/blocks/{index}", s.handleBlock)
		r.Get("/competitors", s.handleCompetitors)
		r.Post("/collect", s.handleCollect)
	})

	s.router.Route("/charts", func(r chi.Router) {
		r.Get("/stats/{index}/{kind}.png", s.handleRoleChart)
		r.Get("/overall/{kind}.png", s.handleOverallChart)
	})

	for _, view := range s.deps.Views.Views() {
		s.router.Get(view.Path, s.handleView(view))
	}
	s.router.NotFound(s.handleNotFound)
}

// Run serves on addr until ctx ends, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	s.baseCtx = ctx
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	}
}
