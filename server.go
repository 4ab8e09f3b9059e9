package tazaccess

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
	"github.com/theoremus-urban-solutions/taz-accessibility/config"
)

// Server exposes the engine to the visualization and export collaborators
// over HTTP. Computation stays synchronous per request; the server only
// adds routing, parameter parsing and scenario lifecycle on top.
type Server struct {
	cfg      *config.AppConfig
	engine   *Engine
	baseline *Baseline
	base     *Scenario

	// uploaded is swapped wholesale when a new scenario file arrives.
	// RBMutex keeps the many read paths cheap.
	mu       *xsync.RBMutex
	uploaded *Scenario

	httpSrv *http.Server
}

// NewServer wires the engine, baseline data and base scenario into an
// HTTP server. The uploaded scenario starts empty.
func NewServer(cfg *config.AppConfig, engine *Engine, baseline *Baseline, base *Scenario) *Server {
	return &Server{
		cfg:      cfg,
		engine:   engine,
		baseline: baseline,
		base:     base,
		mu:       xsync.NewRBMutex(),
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/attributes", s.handleAttributes)
	r.Get("/api/accessibility", s.handleAccessibility)
	r.Get("/api/timebands", s.handleTimeBands)
	r.Get("/api/compare", s.handleCompare)
	r.Get("/api/diagnostics", s.handleDiagnostics)
	r.Post("/api/scenarios/uploaded", s.handleScenarioUpload)
	return r
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()
	logrus.Infof("server listening on %s", addr)
}

// WaitForShutdown blocks until SIGINT/SIGTERM, then drains the server.
func (s *Server) WaitForShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logrus.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			logrus.Errorf("server shutdown error: %v", err)
		} else {
			logrus.Info("server shut down successfully")
		}
	}
}

// scenarioByName returns the scenario for a query value, defaulting to
// base. The uploaded scenario may be nil when nothing was uploaded yet.
func (s *Server) scenarioByName(name string) (*Scenario, error) {
	switch name {
	case "", "base":
		return s.base, nil
	case "uploaded":
		token := s.mu.RLock()
		sc := s.uploaded
		s.mu.RUnlock(token)
		if sc == nil {
			return nil, fmt.Errorf("no uploaded scenario loaded")
		}
		return sc, nil
	default:
		return nil, fmt.Errorf("unknown scenario %q (want base or uploaded)", name)
	}
}

// SetUploaded swaps in a freshly loaded scenario and clears the result
// cache wholesale.
func (s *Server) SetUploaded(sc *Scenario) {
	s.mu.Lock()
	s.uploaded = sc
	s.mu.Unlock()
	s.engine.Invalidate()
}
