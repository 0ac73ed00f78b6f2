package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/launchersearch/embedding"
	"yashubustudio/launchersearch/enhancer"
	"yashubustudio/launchersearch/lexical"
)

var testApps = []lexical.App{
	{Name: "Facebook", Package: "com.facebook.katana"},
	{Name: "カメラ", Package: "jp.example.camera"},
	{Name: "Notes", Package: "com.example.notes"},
}

func setupTestRouter(t *testing.T, opts Options) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := New(enhancer.NewEngine(enhancer.Config{}, nil, nil), testApps, nil)
	return s, s.Router(opts)
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, r := setupTestRouter(t, Options{})
	w := do(r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","apps":3,"semantic":false}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSearchHandler(t *testing.T) {
	_, r := setupTestRouter(t, Options{})

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTitles []string
	}{
		{name: "latin", target: "/v1/search?q=face", wantStatus: http.StatusOK, wantTitles: []string{"Facebook"}},
		{name: "hiragana", target: "/v1/search?q=%E3%81%8B%E3%82%81%E3%82%89", wantStatus: http.StatusOK, wantTitles: []string{"カメラ"}},
		{name: "no match", target: "/v1/search?q=zzzz", wantStatus: http.StatusOK, wantTitles: []string{}},
		{name: "rerank ignored without semantic", target: "/v1/search?q=notes&rerank=true", wantStatus: http.StatusOK, wantTitles: []string{"Notes"}},
		{name: "missing query", target: "/v1/search", wantStatus: http.StatusBadRequest},
		{name: "bad rerank flag", target: "/v1/search?q=notes&rerank=maybe", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.target, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				var apiErr APIError
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
				assert.Equal(t, ErrorCodeInvalidQuery, apiErr.Code)
				assert.NotEmpty(t, apiErr.RequestID)
				return
			}
			var resp SearchResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Reranked)
			titles := []string{}
			for _, res := range resp.Results {
				titles = append(titles, res.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestHintsHandler(t *testing.T) {
	_, r := setupTestRouter(t, Options{})

	w := do(r, http.MethodGet, "/v1/search?q=fbk", nil)
	assert.Contains(t, w.Body.String(), `"results":[]`)

	w = do(r, http.MethodPost, "/v1/hints", []byte(`{"query":"fbk","conversions":["facebook"]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stored":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/search?q=fbk", nil)
	assert.Contains(t, w.Body.String(), `"title":"Facebook"`)

	w = do(r, http.MethodPost, "/v1/hints", []byte(`{"conversions":["x"]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(r, http.MethodPost, "/v1/hints", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVariantsHandler(t *testing.T) {
	_, r := setupTestRouter(t, Options{})
	w := do(r, http.MethodGet, "/v1/variants?q=Kamera", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp VariantsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "kamera", resp.Variants[0])
	assert.Contains(t, resp.Variants, "カメラ")

	w = do(r, http.MethodGet, "/v1/variants?q=+", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	_, r := setupTestRouter(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	_, r := setupTestRouter(t, Options{RatePerSecond: 0.001, Burst: 2})
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
	w := do(r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeRateLimited))
}

func TestSetCatalogSwapsCandidates(t *testing.T) {
	s, r := setupTestRouter(t, Options{})
	s.SetCatalog([]lexical.App{{Name: "Maps", Package: "com.google.maps"}})
	assert.Equal(t, 1, s.CatalogSize())
	w := do(r, http.MethodGet, "/v1/search?q=face", nil)
	assert.Contains(t, w.Body.String(), `"results":[]`)
	w = do(r, http.MethodGet, "/v1/search?q=maps", nil)
	assert.Contains(t, w.Body.String(), `"title":"Maps"`)
}

func TestWatchCatalog(t *testing.T) {
	s, _ := setupTestRouter(t, Options{})
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\nMaps\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.WatchCatalog(ctx, path)
	}()
	defer func() {
		cancel()
		<-done
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("title\nMaps\nNotes\nClock\nCalendar\n"), 0o644)
		return s.CatalogSize() == 4
	}, 5*time.Second, 50*time.Millisecond)
}

type stubEmbedder struct{ err error }

func (s stubEmbedder) Embed(context.Context, embedding.Role, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0}, nil
}

func TestSearchReportsWhetherRerankRan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	apps := []lexical.App{
		{Name: "Notes", Package: "com.example.notes"},
		{Name: "Notebook", Package: "com.example.notebook"},
	}
	cfg := enhancer.Config{Semantic: enhancer.SemanticConfig{Enabled: true}}

	tests := []struct {
		name         string
		embedder     embedding.Embedder
		wantReranked bool
	}{
		{name: "semantic ran", embedder: stubEmbedder{}, wantReranked: true},
		{name: "semantic failed", embedder: stubEmbedder{err: embedding.ErrUnavailable}, wantReranked: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(enhancer.NewEngine(cfg, tt.embedder, nil), apps, nil)
			w := do(s.Router(Options{}), http.MethodGet, "/v1/search?q=note&rerank=true", nil)
			require.Equal(t, http.StatusOK, w.Code)
			var resp SearchResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantReranked, resp.Reranked)
			assert.Len(t, resp.Results, 2)
		})
	}
}

func TestSearchWithoutCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(enhancer.NewEngine(enhancer.Config{}, nil, nil), nil, nil)
	w := do(s.Router(Options{}), http.MethodGet, "/v1/search?q=face", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), string(ErrorCodeCatalogMissing))
}
