package embedding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"yashubustudio/launchersearch/subword"
	"yashubustudio/launchersearch/textnorm"
)

// DefaultMaxSeqLen is the token length fed to the model.
const DefaultMaxSeqLen = 48

// Role separates query and candidate vectors in the cache.
type Role string

const (
	RoleQuery Role = "q"
	RoleApp   Role = "a"
)

// Embedder is the surface the reranker depends on.
type Embedder interface {
	Embed(ctx context.Context, role Role, text string) ([]float32, error)
}

// Config wires a Client.
type Config struct {
	Provider      AssetProvider
	CacheDir      string
	CacheVersion  string
	RequiredArch  string
	MaxSeqLen     int
	CacheCapacity int
	// OpenSession opens the model file. Required.
	OpenSession func(modelPath string) (Session, error)
	// OpenEncoder builds the tokenizer. Defaults to subword.Load.
	OpenEncoder func(vocabPath string) (subword.Encoder, error)
}

type runtimeState struct {
	session Session
	encoder subword.Encoder
}

// Client embeds text lazily: the first call materializes assets and opens the
// session. Asset and architecture failures disable the client for good.
type Client struct {
	cfg    Config
	cache  *Cache
	group  singleflight.Group
	logger *log.Logger

	state   atomic.Pointer[runtimeState]
	initMu  sync.Mutex
	initErr error
	goarch  string

	// runMu is held shared by inference and exclusively by Close.
	runMu sync.RWMutex
}

// NewClient creates a client. Nothing is loaded until the first Embed.
func NewClient(cfg Config, logger *log.Logger) *Client {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = DefaultMaxSeqLen
	}
	if cfg.CacheVersion == "" {
		cfg.CacheVersion = "v2"
	}
	if cfg.OpenEncoder == nil {
		cfg.OpenEncoder = subword.Load
	}
	return &Client{
		cfg:    cfg,
		cache:  NewCache(cfg.CacheCapacity),
		logger: logger,
		goarch: runtime.GOARCH,
	}
}

// Cache exposes the vector cache.
func (c *Client) Cache() *Cache { return c.cache }

// Ready reports whether the session has been opened.
func (c *Client) Ready() bool { return c.state.Load() != nil }

// Embed returns the L2-normalized vector of text. A nil vector with a nil
// error means the model produced an empty batch.
func (c *Client) Embed(ctx context.Context, role Role, text string) ([]float32, error) {
	key := string(role) + "|" + textnorm.Normalize(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}
	if _, err := c.ensureReady(ctx); err != nil {
		return nil, err
	}
	// Joined callers share one flight; it ignores any single caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if vec, ok := c.cache.Get(key); ok {
			return vec, nil
		}
		c.runMu.RLock()
		defer c.runMu.RUnlock()
		st := c.state.Load()
		if st == nil {
			return nil, ErrClosed
		}
		vec, err := c.compute(flightCtx, st, text)
		if err != nil {
			return nil, err
		}
		if vec != nil {
			c.cache.Put(key, vec)
		}
		return vec, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		vec, _ := res.Val.([]float32)
		return cloneVector(vec), nil
	}
}

func (c *Client) compute(ctx context.Context, st *runtimeState, text string) ([]float32, error) {
	enc := st.encoder.Encode(text, c.cfg.MaxSeqLen)
	out, err := st.session.Run(ctx, Inputs{
		InputIDs:      enc.InputIDs,
		AttentionMask: enc.AttentionMask,
		TokenTypeIDs:  make([]int64, len(enc.InputIDs)),
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	vec, err := Pool(out, enc.AttentionMask)
	if err != nil {
		return nil, fmt.Errorf("embed: shape %v: %w", out.Shape, err)
	}
	return vec, nil
}

func (c *Client) ensureReady(ctx context.Context) (*runtimeState, error) {
	if st := c.state.Load(); st != nil {
		return st, nil
	}
	c.initMu.Lock()
	defer c.initMu.Unlock()
	if st := c.state.Load(); st != nil {
		return st, nil
	}
	if c.initErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, c.initErr)
	}
	st, err := c.prepare(ctx)
	if err != nil {
		var assetErr *AssetError
		canceled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		if !canceled && (errors.Is(err, ErrArchMismatch) || errors.As(err, &assetErr)) {
			c.initErr = err
			c.logf("semantic embedding disabled: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	c.state.Store(st)
	return st, nil
}

func (c *Client) prepare(ctx context.Context) (*runtimeState, error) {
	if c.cfg.RequiredArch != "" && c.cfg.RequiredArch != c.goarch {
		return nil, fmt.Errorf("%w: model needs %s, running on %s", ErrArchMismatch, c.cfg.RequiredArch, c.goarch)
	}
	if c.cfg.Provider == nil {
		return nil, &AssetError{Name: "provider", Err: errors.New("no asset provider configured")}
	}
	if c.cfg.OpenSession == nil {
		return nil, errors.New("no session factory configured")
	}
	dir := filepath.Join(c.cfg.CacheDir, "semantic_cache_"+c.cfg.CacheVersion)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &AssetError{Name: "cache dir", Err: err}
	}
	assets, err := c.cfg.Provider.Materialize(ctx, dir)
	if err != nil {
		return nil, err
	}
	encoder, err := c.cfg.OpenEncoder(assets.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	session, err := c.cfg.OpenSession(assets.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	c.logf("semantic model ready: %s", assets.ModelPath)
	return &runtimeState{session: session, encoder: encoder}, nil
}

// Close waits for in-flight inference and releases the session. The client
// may be reopened by a later Embed.
func (c *Client) Close() error {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	c.runMu.Lock()
	defer c.runMu.Unlock()
	st := c.state.Swap(nil)
	c.cache.Clear()
	if st == nil || st.session == nil {
		return nil
	}
	return st.session.Close()
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
