package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-scorer/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.EqualValues(t, 131072, cfg.MaxTranscriptBytes)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("SCORING_CONFIG_PATH", "/etc/scorer/scoring.yaml")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/etc/scorer/scoring.yaml", cfg.ScoringConfigPath)
	assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
	assert.True(t, cfg.IsProd())
	assert.False(t, cfg.IsDev())
}

func TestDefaultScoring(t *testing.T) {
	t.Parallel()
	sc := config.DefaultScoring()

	assert.InDelta(t, 1.0, sc.Weights.Sum(), 1e-9)
	assert.InDelta(t, 0.22, sc.Weights.Structure, 1e-9)
	assert.Equal(t, 60, sc.Thresholds.MinTokens)
	assert.InDelta(t, 2.5, sc.Thresholds.MaxFillerPer100, 1e-9)
	assert.InDelta(t, 0.5, sc.Thresholds.RelevanceFloor, 1e-9)
	assert.InDelta(t, 0.35, sc.Thresholds.RelevanceHardFloor, 1e-9)
	require.NoError(t, sc.Validate())

	meta := sc.IssueMetaFor("filler_heavy")
	assert.Equal(t, "low", meta.Severity)
	assert.NotEmpty(t, meta.FixMessage)
}

func TestWeightsForModeFallback(t *testing.T) {
	t.Parallel()
	sc := config.DefaultScoring()
	sc.ModeWeights = map[string]config.Weights{
		"technical": {Structure: 0.1, Relevance: 0.2, Clarity: 0.1, Conciseness: 0.1, Delivery: 0.1, Technical: 0.4},
	}

	assert.InDelta(t, 0.4, sc.WeightsFor("technical").Technical, 1e-9)
	// unknown modes fall back to the global weights
	assert.InDelta(t, 0.10, sc.WeightsFor("behavioral").Technical, 1e-9)
}

func TestLoadScoringEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()
	sc, err := config.LoadScoring("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultScoring(), sc)
}

func TestLoadScoringMergesPartialOverride(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	doc := `
weights:
  structure: 0.3
thresholds:
  min_tokens: 40
issues:
  rambling:
    severity: medium
    fix_message: Tighten the story to its essential beats.
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	sc, err := config.LoadScoring(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, sc.Weights.Structure, 1e-9)
	// untouched fields keep their defaults
	assert.InDelta(t, 0.20, sc.Weights.Relevance, 1e-9)
	assert.Equal(t, 40, sc.Thresholds.MinTokens)
	assert.InDelta(t, 2.5, sc.Thresholds.MaxFillerPer100, 1e-9)
	assert.Equal(t, "medium", sc.IssueMetaFor("rambling").Severity)
	// issue types absent from the override keep their built-in entries
	assert.Equal(t, "high", sc.IssueMetaFor("relevance").Severity)
}

func TestLoadScoringRejectsBadFiles(t *testing.T) {
	t.Parallel()
	_, err := config.LoadScoring(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: [not, a, map]"), 0o600))
	_, err = config.LoadScoring(path)
	require.Error(t, err)
}

func TestValidateRejectsZeroWeights(t *testing.T) {
	t.Parallel()
	sc := config.DefaultScoring()
	sc.Weights = config.Weights{}
	require.Error(t, sc.Validate())

	sc = config.DefaultScoring()
	sc.ModeWeights = map[string]config.Weights{"behavioral": {}}
	require.Error(t, sc.Validate())

	sc = config.DefaultScoring()
	sc.Thresholds.IdealDurationSeconds = 0
	require.Error(t, sc.Validate())
}
