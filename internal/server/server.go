// Package server exposes the skill graph over HTTP for dashboards.
//
// A dashboard creates a view session, then forwards region and background
// clicks to it; every response carries the navigation state and the solved
// scene of the current view. Layouts can also be computed once and saved as
// documents.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/skillgraph/pkg/bootstrap"
	"github.com/matzehuels/skillgraph/pkg/buildinfo"
	sgerrors "github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/layout"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/source"
	"github.com/matzehuels/skillgraph/pkg/storage"
)

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxViews       = 1000
)

// Config holds server configuration.
type Config struct {
	Addr            string
	AllowAllOrigins bool     // dev mode
	AllowedOrigins  []string // used unless AllowAllOrigins
	RequestTimeout  time.Duration
	MaxViews        int

	// Source loads the forest; Base keys it in the runner's cache.
	Source source.Loader
	Base   string

	Runner  *pipeline.Runner
	Layout  layout.Options
	Store   storage.Store
	Library bootstrap.Library
	Logger  *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxViews <= 0 {
		c.MaxViews = DefaultMaxViews
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.Runner == nil {
		c.Runner = pipeline.NewRunner(nil, nil, c.Logger)
	}
	if c.Store == nil {
		c.Store = storage.NewMemoryStore()
	}
	if c.Library == nil {
		c.Library = bootstrap.Available()
	}
	c.Layout.SetDefaults()
}

// Server serves the dashboard API.
type Server struct {
	cfg        Config
	router     chi.Router
	httpServer *http.Server

	forestMu sync.Mutex
	forest   hierarchy.Forest
	loaded   bool

	// mu guards views and every navigator in it.
	mu    sync.Mutex
	views map[string]*viewSession
}

// New creates a server. cfg.Source is required.
func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, sgerrors.New(sgerrors.ErrCodeInvalidInput, "server needs a data source")
	}
	cfg.setDefaults()
	s := &Server{
		cfg:   cfg,
		views: make(map[string]*viewSession),
	}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	corsOpts := cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hierarchies/{source}", s.handleHierarchy)

		r.Post("/views", s.handleCreateView)
		r.Route("/views/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)
			r.Get("/svg", s.handleViewSVG)
			r.Post("/click", s.handleClick)
			r.Post("/background", s.handleBackground)
			r.Post("/source", s.handleSource)
		})

		r.Get("/layouts", s.handleListLayouts)
		r.Post("/layouts", s.handleCreateLayout)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Delete("/layouts/{id}", s.handleDeleteLayout)
		r.Get("/layouts/{id}/svg", s.handleLayoutSVG)
	})

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// WaitReady blocks until the rendering library is ready or the poll budget
// runs out.
func (s *Server) WaitReady(ctx context.Context) error {
	return bootstrap.WaitReady(ctx, s.cfg.Library, bootstrap.DefaultPollInterval, bootstrap.DefaultPollAttempts)
}

// Run listens on cfg.Addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// loadForest returns the memoized forest, loading it on first use or when
// refresh is set.
func (s *Server) loadForest(ctx context.Context, refresh bool) (hierarchy.Forest, error) {
	s.forestMu.Lock()
	defer s.forestMu.Unlock()
	if s.loaded && !refresh {
		return s.forest, nil
	}
	f, err := s.cfg.Runner.Load(ctx, s.cfg.Source, s.cfg.Base, refresh)
	if err != nil {
		return hierarchy.Forest{}, err
	}
	s.forest, s.loaded = f, true
	return f, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"build":         buildinfo.Get(),
		"library_ready": s.cfg.Library.Ready(),
	})
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	kind, err := hierarchy.ParseKind(chi.URLParam(r, "source"))
	if err != nil {
		writeError(w, err)
		return
	}
	forest, err := s.loadForest(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forest.Get(kind))
}
