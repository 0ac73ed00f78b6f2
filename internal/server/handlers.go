package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"yashubustudio/launchersearch/lexical"
)

// Result is one ranked candidate in a search response.
type Result struct {
	Title   string `json:"title"`
	Package string `json:"package"`
	Key     string `json:"key,omitempty"`
	Score   int    `json:"score"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Query    string   `json:"query"`
	Results  []Result `json:"results"`
	Reranked bool     `json:"reranked"`
	TookMs   int64    `json:"took_ms"`
}

// HintRequest is the body of POST /v1/hints.
type HintRequest struct {
	Query       string   `json:"query" binding:"required"`
	Conversions []string `json:"conversions"`
}

// VariantsResponse is the body of GET /v1/variants.
type VariantsResponse struct {
	Query    string   `json:"query"`
	Variants []string `json:"variants"`
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"apps":     s.CatalogSize(),
		"semantic": s.engine.SemanticEnabled(),
	})
}

func (s *Server) searchHandler(c *gin.Context) {
	start := time.Now()
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "query parameter 'q' is required")
		return
	}
	rerank := false
	if raw := c.Query("rerank"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "rerank must be a boolean")
			return
		}
		rerank = v
	}

	cands := s.candidates()
	if len(cands) == 0 {
		SendError(c, http.StatusServiceUnavailable, ErrorCodeCatalogMissing, "no catalog loaded")
		return
	}
	ranked := s.engine.Search(q, cands)
	reranked := false
	if rerank && s.engine.SemanticEnabled() {
		ranked, reranked = s.engine.TryRerank(c.Request.Context(), q, ranked)
	}
	c.JSON(http.StatusOK, SearchResponse{
		Query:    q,
		Results:  toResults(ranked),
		Reranked: reranked,
		TookMs:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) hintsHandler(c *gin.Context) {
	var req HintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "invalid request body: "+err.Error())
		return
	}
	stored := s.engine.Hints().Put(req.Query, req.Conversions)
	c.JSON(http.StatusOK, gin.H{"stored": stored})
}

func (s *Server) variantsHandler(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "query parameter 'q' is required")
		return
	}
	variants := s.engine.Variants(q)
	if variants == nil {
		variants = []string{}
	}
	c.JSON(http.StatusOK, VariantsResponse{Query: q, Variants: variants})
}

func toResults(ranked []lexical.Scored) []Result {
	out := make([]Result, 0, len(ranked))
	for _, r := range ranked {
		if r.Candidate == nil {
			continue
		}
		out = append(out, Result{
			Title:   r.Candidate.Title(),
			Package: r.Candidate.PackageIdentifier(),
			Key:     r.Candidate.IdentityKey(),
			Score:   r.Score,
		})
	}
	return out
}
