package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/interview-scorer/internal/adapter/httpserver"
	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/scoring"
	"github.com/fairyhunter13/interview-scorer/internal/usecase"
)

func newTestServer(t *testing.T) *httpserver.Server {
	t.Helper()
	cfg := config.Config{MaxTranscriptBytes: 1 << 20}
	svc := usecase.NewScoreService(scoring.NewEngine(config.DefaultScoring()))
	return httpserver.NewServer(cfg, svc)
}

const validBody = `{
	"question": "Tell me about a challenge you faced and how you handled it.",
	"transcript": "We faced a hard problem. I implemented a fix and as a result latency dropped 40%.",
	"duration_seconds": 95
}`

func TestScoreHandlerOK(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	srv.ScoreHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	overall, ok := body["overallScore"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, overall, 0.0)
	assert.LessOrEqual(t, overall, 100.0)
	subs, ok := body["subscores"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, subs, "structure")
	assert.Contains(t, subs, "relevance")
	assert.Contains(t, body, "issues")
	assert.Contains(t, body, "suggestions")
}

func TestScoreHandlerInvalidJSON(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ScoreHandler()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_ARGUMENT", body["error"]["code"])
}

func TestScoreHandlerValidation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader(`{"duration_seconds": 30}`))
	rec := httptest.NewRecorder()
	srv.ScoreHandler()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_ARGUMENT", body.Error.Code)
	assert.Equal(t, "required", body.Error.Details["transcript"])
}

func TestScoreHandlerNegativeDuration(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score",
		strings.NewReader(`{"transcript": "Short answer.", "duration_seconds": -5}`))
	rec := httptest.NewRecorder()
	srv.ScoreHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreHandlerAcceptNegotiation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader(validBody))
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	srv.ScoreHandler()(rec, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestHealthzHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.HealthzHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyzHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// a server without an engine is not ready
	broken := httpserver.NewServer(config.Config{}, usecase.NewScoreService(nil))
	rec = httptest.NewRecorder()
	broken.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
