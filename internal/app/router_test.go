package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/interview-scorer/internal/adapter/httpserver"
	"github.com/fairyhunter13/interview-scorer/internal/app"
	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/scoring"
	"github.com/fairyhunter13/interview-scorer/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"*"}, app.ParseOrigins(" , ,"))
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		app.ParseOrigins(" https://a.example.com, https://b.example.com "))
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		CORSAllowOrigins:   "*",
		RateLimitPerMin:    1000,
		MaxTranscriptBytes: 1 << 20,
		RequestTimeout:     5 * time.Second,
	}
	svc := usecase.NewScoreService(scoring.NewEngine(config.DefaultScoring()))
	return app.BuildRouter(cfg, httpserver.NewServer(cfg, svc))
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	// security headers apply to every route
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterScoreRoute(t *testing.T) {
	t.Parallel()
	router := newRouter(t)

	body := `{"transcript": "I led the migration and as a result load times dropped 30%.", "duration_seconds": 70}`
	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "overallScore")
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
