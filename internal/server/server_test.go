package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codect/internal/config"
	"codect/internal/detector"
	"codect/internal/engine"
	"codect/internal/parse"
)

func newTestServer(t *testing.T, cfg config.ServerConfig, opts ...engine.Option) *Server {
	t.Helper()
	opts = append([]engine.Option{engine.WithDetector(detector.New())}, opts...)
	eng, err := engine.New(opts...)
	require.NoError(t, err)
	s, err := New(eng, cfg, "test")
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
		Languages []string          `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Codect API", body.Message)
	assert.Contains(t, body.Endpoints, "/premium")
	assert.Equal(t, []string{"javascript", "python"}, body.Languages)
}

func TestBasic(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodPost, "/basic", `{"code":"def add(x, y):\n    return x + y","language":"python"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":0}`, rec.Body.String())
}

func TestPremium(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodPost, "/premium", `{"code":"const a = 1;\n","filename":"a.js"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "javascript", body["language"])
	assert.Contains(t, body, "classification")
	assert.Contains(t, body, "score")

	feats, ok := body["features"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, feats["total_lines"])
	assert.Contains(t, feats, "token_entropy")
	assert.Contains(t, feats, "uses_var")
}

func TestPremium_EmptyCode(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodPost, "/premium", `{"code":"","language":"python"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":0`)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unsupported language", `{"code":"fn main() {}","language":"rust"}`, http.StatusBadRequest, engine.CodeUnsupportedLanguage},
		{"language required", `{"code":"hello"}`, http.StatusBadRequest, engine.CodeLanguageRequired},
		{"missing code", `{"language":"python"}`, http.StatusBadRequest, codeBadRequest},
		{"malformed json", `{"code":`, http.StatusBadRequest, codeBadRequest},
	}
	s := newTestServer(t, config.ServerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/basic", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestResourceLimit(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{}, engine.WithLimits(parse.Limits{MaxBytes: 16}))
	rec := do(t, s, http.MethodPost, "/basic", `{"code":"x = 1\nx = 2\nx = 3\nx = 4\n","language":"python"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, engine.CodeResourceLimitExceeded, decodeError(t, rec).Code)
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{BodyLimit: "1K"})
	body := `{"code":"` + strings.Repeat("x", 2048) + `","language":"python"}`
	rec := do(t, s, http.MethodPost, "/basic", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, engine.CodeResourceLimitExceeded, decodeError(t, rec).Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

type countingAnalyzer struct {
	calls atomic.Int32
}

func (a *countingAnalyzer) Analyze(_ context.Context, req engine.Request) (*engine.Result, error) {
	a.calls.Add(1)
	return &engine.Result{Result: len(req.Code) % 2, Language: req.Language}, nil
}

func (a *countingAnalyzer) Languages() []string { return []string{"python"} }

func TestCache_ReusesResults(t *testing.T) {
	a := &countingAnalyzer{}
	s, err := New(a, config.ServerConfig{CacheSize: 8}, "test")
	require.NoError(t, err)

	body := `{"code":"x = 1","language":"python"}`
	for i := 0; i < 3; i++ {
		rec := do(t, s, http.MethodPost, "/basic", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.EqualValues(t, 1, a.calls.Load())
	assert.Equal(t, 1, s.cache.Len())

	// detailed is part of the key
	do(t, s, http.MethodPost, "/premium", body)
	assert.EqualValues(t, 2, a.calls.Load())
}

func TestCache_Disabled(t *testing.T) {
	a := &countingAnalyzer{}
	s, err := New(a, config.ServerConfig{}, "test")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(t, s, http.MethodPost, "/basic", `{"code":"x","language":"python"}`)
		}()
	}
	wg.Wait()
	do(t, s, http.MethodPost, "/basic", `{"code":"x","language":"python"}`)

	assert.GreaterOrEqual(t, a.calls.Load(), int32(2))
	assert.Equal(t, 0, s.cache.Len())
}

func TestCacheKey(t *testing.T) {
	base := engine.Request{Code: "x", Language: "python"}
	detailed := base
	detailed.Detailed = true
	other := base
	other.Language = "javascript"

	assert.Equal(t, cacheKey(base), cacheKey(base))
	assert.NotEqual(t, cacheKey(base), cacheKey(detailed))
	assert.NotEqual(t, cacheKey(base), cacheKey(other))
}

func TestCache_CallerCancelDoesNotFailSharedAnalysis(t *testing.T) {
	c, err := newResultCache(8)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	analyze := func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return &engine.Result{Language: req.Language}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	req := engine.Request{Code: "x = 1", Language: "python"}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(firstCtx, req, analyze)
		firstErr <- err
	}()
	<-started
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	type outcome struct {
		res *engine.Result
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := c.Get(context.Background(), req, analyze)
		second <- outcome{res, err}
	}()
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "python", got.res.Language)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 1, c.Len())
}
