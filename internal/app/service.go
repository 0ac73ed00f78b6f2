package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"yashubustudio/launchersearch/catalog"
	"yashubustudio/launchersearch/enhancer"
	"yashubustudio/launchersearch/lexical"
)

// PendingWindow bounds how far back an unresolved query is offered again.
const PendingWindow = 2 * time.Minute

// Options locates the files the desktop host works with.
type Options struct {
	ConfigPath  string
	CatalogPath string
	Logger      *log.Logger
}

// Service owns the engine and the current catalog for the UI.
type Service struct {
	mu      sync.RWMutex
	cands   []lexical.Candidate
	catPath string

	cfgPath string
	engine  *enhancer.Engine
	logger  *log.Logger
}

// NewService loads the configuration and, when a path is given, the catalog.
func NewService(opts Options) (*Service, error) {
	cfg, err := enhancer.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	engine, err := enhancer.Open(cfg, opts.Logger)
	if err != nil {
		return nil, err
	}
	s := &Service{cfgPath: opts.ConfigPath, engine: engine, logger: opts.Logger}
	if opts.CatalogPath != "" {
		if _, err := s.LoadCatalog(opts.CatalogPath); err != nil {
			engine.Close()
			return nil, err
		}
	}
	s.logf("%s", engine)
	return s, nil
}

// Close releases the engine.
func (s *Service) Close() error {
	return s.engine.Close()
}

// Engine exposes the underlying engine.
func (s *Service) Engine() *enhancer.Engine { return s.engine }

// Config returns the effective engine configuration.
func (s *Service) Config() enhancer.Config { return s.engine.Config() }

// SaveConfig persists cfg to the file the service was opened with. It takes
// effect on the next start.
func (s *Service) SaveConfig(cfg enhancer.Config) error {
	if s.cfgPath == "" {
		return errors.New("no config path")
	}
	return enhancer.SaveConfig(s.cfgPath, cfg)
}

// LoadCatalog replaces the catalog with the contents of path and returns the
// number of apps loaded.
func (s *Service) LoadCatalog(path string) (int, error) {
	apps, err := catalog.Load(path)
	if err != nil {
		return 0, err
	}
	s.SetCatalog(apps)
	s.mu.Lock()
	s.catPath = path
	s.mu.Unlock()
	return len(apps), nil
}

// SetCatalog swaps the candidate list.
func (s *Service) SetCatalog(apps []lexical.App) {
	cands := lexical.Apps(apps)
	s.mu.Lock()
	s.cands = cands
	s.mu.Unlock()
	s.logf("catalog: %d apps", len(cands))
}

// CatalogPath returns the file the catalog was last loaded from.
func (s *Service) CatalogPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catPath
}

// CatalogSize returns the number of candidates.
func (s *Service) CatalogSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cands)
}

func (s *Service) candidates() []lexical.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cands
}

// Query ranks the catalog for text, reranking when semantic search is on.
func (s *Service) Query(ctx context.Context, text string) []ResultRow {
	return rowsFrom(s.engine.Query(ctx, text, s.candidates()))
}

// NewSession starts a search session and returns an unresolved query from an
// earlier session worth offering again.
func (s *Service) NewSession() (string, bool) {
	s.engine.BeginSession()
	return s.engine.RecoverPending("", PendingWindow)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
