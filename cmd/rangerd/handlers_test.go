package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reddit-ranger/ranger/detect"
	"github.com/reddit-ranger/ranger/detect/engine"
)

func testServer(fetcher *engine.MockFetcher, rps float64) *Server {
	return NewServer(engine.EngineTestFixture(fetcher), Config{
		RateLimitRPS: rps,
	})
}

func testFetcher() *engine.MockFetcher {
	created := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	bodies := []string{}
	for i := 0; i < 12; i++ {
		bodies = append(bodies, fmt.Sprintf("thinking about topic number %d today, in some detail", i))
	}
	return &engine.MockFetcher{
		Profiles: map[string]*detect.RawProfile{
			"somebody": engine.RawProfileFixture("somebody", created, bodies, start, 9*time.Hour),
			"ghost": {
				Username:  "ghost",
				CreatedAt: created,
			},
		},
	}
}

func TestHandleAnalyze(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(testFetcher(), 0)

	req := httptest.NewRequest(http.MethodGet, "/analyze/somebody", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(200, rec.Code)

	var out AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	assert.Equal("somebody", out.Username)
	assert.GreaterOrEqual(out.Probability, 0.0)
	assert.LessOrEqual(out.Probability, 100.0)
	assert.Equal(12, out.Summary.TotalComments)
	assert.NotEmpty(out.Summary.AccountAge)
	for _, cat := range detect.Categories {
		val, ok := out.Summary.Scores[cat+"_score"]
		assert.True(ok, "missing score for %s", cat)
		assert.GreaterOrEqual(val, 0.0)
		assert.LessOrEqual(val, 100.0)
	}
}

func TestHandleAnalyzeErrors(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(testFetcher(), 0)

	fixtures := []struct {
		path       string
		statusCode int
		errorName  string
	}{
		{path: "/analyze/nobody", statusCode: 404, errorName: "AccountNotFound"},
		{path: "/analyze/ghost", statusCode: 400, errorName: "InsufficientData"},
	}
	for _, fix := range fixtures {
		req := httptest.NewRequest(http.MethodGet, fix.path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(fix.statusCode, rec.Code)

		var out GenericError
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		assert.Equal(fix.errorName, out.Error)
	}
}

func TestHandleAnalyzeUpstreamError(t *testing.T) {
	assert := assert.New(t)
	fetcher := &engine.MockFetcher{
		Err: fmt.Errorf("connection refused: %w", detect.ErrUpstreamUnavailable),
	}
	srv := testServer(fetcher, 0)

	req := httptest.NewRequest(http.MethodGet, "/analyze/somebody", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(502, rec.Code)

	var out GenericError
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	assert.Equal("UpstreamUnavailable", out.Error)
}

func TestHandleHealthCheck(t *testing.T) {
	assert := assert.New(t)
	srv := testServer(testFetcher(), 0)

	req := httptest.NewRequest(http.MethodGet, "/_health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(200, rec.Code)

	var out GenericStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	assert.Equal("ok", out.Status)
	assert.Equal("rangerd", out.Daemon)
}

func TestRateLimit(t *testing.T) {
	assert := assert.New(t)
	// 1 req/sec with burst 3: the fourth rapid request gets rejected
	srv := testServer(testFetcher(), 1)

	codes := []int{}
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/analyze/somebody", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal([]int{200, 200, 200, 429}, codes)

	// a different client IP has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/analyze/somebody", nil)
	req.RemoteAddr = "192.0.2.8:1234"
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(200, rec.Code)
}
