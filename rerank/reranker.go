// Package rerank refines the head of a lexical ranking with embedding
// similarity.
package rerank

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"yashubustudio/launchersearch/embedding"
	"yashubustudio/launchersearch/lexical"
)

// DefaultTopN bounds the reranked head.
const DefaultTopN = 32

// Candidate is a lexical result with its fused scores. Tail entries keep zero
// semantic and final scores.
type Candidate struct {
	lexical.Scored
	Semantic float32
	Final    float32
}

// Title returns the candidate title, or "" for a nil candidate.
func (c Candidate) Title() string {
	if c.Candidate == nil {
		return ""
	}
	return c.Candidate.Title()
}

// Options tunes a Reranker.
type Options struct {
	TopN    int
	Workers int
}

// Reranker reorders the top of a lexical ranking.
type Reranker struct {
	embedder embedding.Embedder
	topN     int
	workers  int
	logger   *log.Logger
}

// New builds a reranker over e.
func New(e embedding.Embedder, opts Options, logger *log.Logger) *Reranker {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Reranker{embedder: e, topN: opts.TopN, workers: opts.Workers, logger: logger}
}

// AppText is the text embedded for a candidate: the title followed by the
// package name with separators turned into spaces.
func AppText(title, pkg string) string {
	return title + " " + strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(pkg)
}

// Rerank fuses lexical and semantic scores over the first TopN entries and
// returns head ++ tail. The tail is never reordered. Lists shorter than two
// and empty queries come back unchanged, as does the input when the query
// vector is missing. Embedding errors are returned with a nil slice.
func (r *Reranker) Rerank(ctx context.Context, query string, ranked []lexical.Scored) ([]Candidate, error) {
	out := wrap(ranked)
	if len(ranked) < 2 || query == "" || r == nil || r.embedder == nil {
		return out, nil
	}
	top := min(r.topN, len(out))
	head := out[:top]

	qVec, err := r.embedder.Embed(ctx, embedding.RoleQuery, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if qVec == nil {
		r.logf("rerank %q: empty query vector", query)
		return out, nil
	}

	vecs := make([][]float32, len(head))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range head {
		c := head[i].Candidate
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("embed candidate %d: panic: %v", i, p)
				}
			}()
			if c == nil {
				return nil
			}
			text := AppText(c.Title(), c.PackageIdentifier())
			vec, err := r.embedder.Embed(gctx, embedding.RoleApp, text)
			if err != nil {
				return fmt.Errorf("embed %q: %w", text, err)
			}
			vecs[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w := SemanticWeight(query)
	for i := range head {
		if vecs[i] != nil {
			head[i].Semantic = dot(qVec, vecs[i])
		}
		head[i].Final = Fuse(head[i].Score, head[i].Semantic, w)
	}
	sortHead(head)
	return out, nil
}

func sortHead(head []Candidate) {
	sort.SliceStable(head, func(i, j int) bool {
		a, b := head[i], head[j]
		if a.Final != b.Final {
			return a.Final > b.Final
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
	})
}

func wrap(ranked []lexical.Scored) []Candidate {
	out := make([]Candidate, len(ranked))
	for i, s := range ranked {
		out[i] = Candidate{Scored: s}
	}
	return out
}

// Scored unwraps the lexical results in their current order.
func Scored(cands []Candidate) []lexical.Scored {
	out := make([]lexical.Scored, len(cands))
	for i, c := range cands {
		out[i] = c.Scored
	}
	return out
}

func (r *Reranker) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
