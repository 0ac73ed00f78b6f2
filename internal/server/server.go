// Package server exposes an enhancer.Engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"yashubustudio/launchersearch/catalog"
	"yashubustudio/launchersearch/enhancer"
	"yashubustudio/launchersearch/lexical"
)

// Options tunes the router.
type Options struct {
	// RatePerSecond refills the shared token bucket. Zero disables limiting.
	RatePerSecond float64
	Burst         int
}

// Server holds the engine and the current catalog.
type Server struct {
	engine *enhancer.Engine
	logger *log.Logger

	mu    sync.RWMutex
	cands []lexical.Candidate
}

// New builds a server over engine with an initial catalog.
func New(engine *enhancer.Engine, apps []lexical.App, logger *log.Logger) *Server {
	s := &Server{engine: engine, logger: logger}
	s.SetCatalog(apps)
	return s
}

// SetCatalog swaps the candidate list served by subsequent requests.
func (s *Server) SetCatalog(apps []lexical.App) {
	cands := lexical.Apps(apps)
	s.mu.Lock()
	s.cands = cands
	s.mu.Unlock()
	s.logf("catalog loaded: %d apps", len(cands))
}

// CatalogSize returns the number of candidates currently served.
func (s *Server) CatalogSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cands)
}

func (s *Server) candidates() []lexical.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cands
}

// Router wires the routes and middleware.
func (s *Server) Router(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware())
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		r.Use(RateLimitMiddleware(rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)))
	}
	r.GET("/healthz", s.healthHandler)
	v1 := r.Group("/v1")
	{
		v1.GET("/search", s.searchHandler)
		v1.POST("/hints", s.hintsHandler)
		v1.GET("/variants", s.variantsHandler)
	}
	return r
}

// WatchCatalog reloads the catalog from path until ctx is done. Reload
// failures are logged and keep the previous catalog.
func (s *Server) WatchCatalog(ctx context.Context, path string) error {
	return catalog.Watch(ctx, path, s.SetCatalog, func(err error) {
		s.logf("catalog reload failed: %v", err)
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, opts Options) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logf("listening on %s", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errc
	return nil
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
