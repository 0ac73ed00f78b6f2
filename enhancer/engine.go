// Package enhancer is the public search boundary: lexical search with
// one-shot conversion hints, optional semantic reranking, the pending
// no-result store and the stale-result guard.
package enhancer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"yashubustudio/launchersearch/embedding"
	"yashubustudio/launchersearch/lexical"
	"yashubustudio/launchersearch/rerank"
	"yashubustudio/launchersearch/subword"
	"yashubustudio/launchersearch/textnorm"
)

// Engine ranks launcher candidates for a query. It is safe for concurrent
// use.
type Engine struct {
	cfg      Config
	logger   *log.Logger
	ranker   lexical.Ranker
	hints    *ConversionHints
	pending  *PendingQueries
	reranker *rerank.Reranker
	closer   io.Closer
	session  atomic.Int64
	now      func() time.Time
}

// NewEngine builds an engine. embedder may be nil, which disables the
// semantic stage regardless of configuration.
func NewEngine(cfg Config, embedder embedding.Embedder, logger *log.Logger) *Engine {
	cfg.ApplyDefaults()
	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		ranker:  lexical.Ranker{Limit: cfg.MaxResults},
		hints:   &ConversionHints{},
		pending: NewPendingQueries(cfg.Pending),
		now:     time.Now,
	}
	if cfg.Semantic.Enabled && embedder != nil {
		e.reranker = rerank.New(embedder, rerank.Options{
			TopN:    cfg.Semantic.TopN,
			Workers: cfg.Semantic.Workers,
		}, logger)
	}
	return e
}

// Open builds an engine and, when the semantic stage is enabled, an
// embedding client backed by ONNX Runtime. Assets are not touched until the
// first rerank.
func Open(cfg Config, logger *log.Logger) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Semantic.Enabled {
		return NewEngine(cfg, nil, logger), nil
	}
	client := NewEmbeddingClient(cfg, logger)
	e := NewEngine(cfg, client, logger)
	e.closer = client
	return e, nil
}

// NewEmbeddingClient wires the asset provider, tokenizer backend and ONNX
// session described by cfg.
func NewEmbeddingClient(cfg Config, logger *log.Logger) *embedding.Client {
	ec := cfg.Embedder
	var provider embedding.AssetProvider
	switch ec.AssetSource {
	case AssetsRemote:
		provider = &embedding.RemoteProvider{
			ModelURL:  ec.ModelURL,
			VocabURL:  ec.VocabURL,
			ModelFile: ec.ModelFile,
			VocabFile: ec.VocabFile,
		}
	default:
		provider = &embedding.BundledProvider{
			FS:        os.DirFS(ec.BundledDir),
			ModelFile: ec.ModelFile,
			VocabFile: ec.VocabFile,
		}
	}
	ortOpts := embedding.ORTOptions{Library: ec.ORTLibrary, IntraOpThreads: ec.IntraOpThreads}
	return embedding.NewClient(embedding.Config{
		Provider:      provider,
		CacheDir:      ec.CacheDir,
		CacheVersion:  ec.CacheVersion,
		RequiredArch:  ec.RequiredArch,
		MaxSeqLen:     cfg.Semantic.MaxSeqLen,
		CacheCapacity: cfg.Semantic.CacheCapacity,
		OpenSession: func(modelPath string) (embedding.Session, error) {
			return embedding.NewORTSession(modelPath, ortOpts)
		},
		OpenEncoder: func(vocabPath string) (subword.Encoder, error) {
			return subword.Open(vocabPath, ec.TokenizerBackend)
		},
	}, logger)
}

// Close releases the embedding session, if any.
func (e *Engine) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Hints exposes the conversion hint table fed by the host.
func (e *Engine) Hints() *ConversionHints { return e.hints }

// Pending exposes the no-result query store.
func (e *Engine) Pending() *PendingQueries { return e.pending }

// SemanticEnabled reports whether Rerank does anything.
func (e *Engine) SemanticEnabled() bool { return e.reranker != nil }

// BeginSession starts a new search session and returns its id.
func (e *Engine) BeginSession() int {
	return int(e.session.Add(1))
}

// Session returns the current session id.
func (e *Engine) Session() int {
	return int(e.session.Load())
}

// Variants returns the query variants Search would use, without consuming
// conversion hints.
func (e *Engine) Variants(query string) []string {
	return lexical.BuildVariants(query).Values()
}

// Search ranks candidates lexically. Pending conversion hints for the query
// are merged in and consumed. Failures are logged and yield no results.
func (e *Engine) Search(query string, candidates []lexical.Candidate) (out []lexical.Scored) {
	defer func() {
		if r := recover(); r != nil {
			e.logf("search %q failed: %v", query, r)
			out = nil
		}
	}()
	q := textnorm.Normalize(query)
	if q == "" {
		return nil
	}
	variants := lexical.BuildVariants(query)
	if conversions, ok := e.hints.Take(q); ok {
		for _, c := range conversions {
			variants.Merge(lexical.BuildVariants(c))
		}
	}
	out = e.ranker.Rank(variants, candidates)
	if len(out) == 0 {
		e.pending.RecordNoResult(q, e.now(), e.Session())
	} else {
		e.pending.MarkResolved(q)
	}
	return out
}

// Rerank applies the semantic stage to a lexical ranking. The input comes
// back unchanged when the stage is disabled or fails.
func (e *Engine) Rerank(ctx context.Context, query string, ranked []lexical.Scored) []lexical.Scored {
	out, _ := e.TryRerank(ctx, query, ranked)
	return out
}

// TryRerank is Rerank that also reports whether the semantic stage ran to
// completion. It is false when the stage is disabled, when there is nothing
// to reorder, and when the stage failed and the lexical order was kept.
func (e *Engine) TryRerank(ctx context.Context, query string, ranked []lexical.Scored) (out []lexical.Scored, applied bool) {
	if e.reranker == nil || len(ranked) < 2 {
		return ranked, false
	}
	defer func() {
		if r := recover(); r != nil {
			e.logf("rerank %q failed: %v", query, r)
			out, applied = ranked, false
		}
	}()
	cands, err := e.reranker.Rerank(ctx, query, ranked)
	if err != nil {
		e.logf("rerank %q skipped: %v", query, err)
		return ranked, false
	}
	return rerank.Scored(cands), true
}

// Query runs Search then Rerank.
func (e *Engine) Query(ctx context.Context, query string, candidates []lexical.Candidate) []lexical.Scored {
	return e.Rerank(ctx, query, e.Search(query, candidates))
}

// RecoverPending returns the newest unresolved no-result query from an
// earlier session within window, skipping current.
func (e *Engine) RecoverPending(current string, window time.Duration) (string, bool) {
	return e.pending.PollUnresolved(textnorm.Normalize(current), e.now(), window, e.Session())
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

// String describes the engine for logs.
func (e *Engine) String() string {
	return fmt.Sprintf("engine(maxResults=%d semantic=%t pending=%s)", e.cfg.MaxResults, e.SemanticEnabled(), e.pending.Mode())
}
