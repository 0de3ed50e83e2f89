// Package web serves the catalog as HTML pages plus a small JSON API.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/runnerr0/wordsmith/internal/chart"
	"github.com/runnerr0/wordsmith/internal/config"
	"github.com/runnerr0/wordsmith/internal/storage"
	"go.uber.org/zap"
)

// Server is the wordsmith HTTP handler.
type Server struct {
	store     storage.Store
	cfg       *config.Config
	chartOpts chart.Options
	logger    *zap.Logger
	pages     *pages
	handler   http.Handler
}

// New builds a Server over store. A nil logger is replaced by a no-op one.
func New(store storage.Store, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("web: store is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	chartOpts := chart.OptionsFromConfig(cfg.Chart)
	if err := chartOpts.Validate(); err != nil {
		return nil, err
	}

	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:     store,
		cfg:       cfg,
		chartOpts: chartOpts,
		logger:    logger,
		pages:     p,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withRequestID(s.withAccessLog(s.withRecover(mux)))

	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Pages.
	mux.HandleFunc("GET /", s.handleList)
	mux.HandleFunc("GET /texts/new", s.handleNew)
	mux.HandleFunc("POST /texts", s.handleCreate)
	mux.HandleFunc("GET /texts/{id}", s.handleDetail)
	mux.HandleFunc("GET /texts/{id}/histogram.png", s.handleHistogram)

	// API.
	mux.HandleFunc("GET /api/texts/{id}/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /health", s.handleHealth)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer wraps s in an *http.Server using the configured address and
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	sc := s.cfg.Server
	return &http.Server{
		Addr:         sc.Addr(),
		Handler:      s,
		ReadTimeout:  time.Duration(sc.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(sc.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(sc.IdleTimeoutSeconds) * time.Second,
	}
}
