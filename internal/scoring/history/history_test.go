package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-scorer/internal/scoring/history"
)

func TestBuildSnapshotsFromStoredExplanations(t *testing.T) {
	t.Parallel()
	entries := []any{
		map[string]any{
			"scores": map[string]any{"total": 62.5, "clarity": 0.8},
			"explanations": map[string]any{
				"wpm":              138.0,
				"fillers_per_100w": 3.1,
				"hedges_per_100w":  1.0,
				"star":             map[string]any{"coverage": 2},
				"result_strength":  map[string]any{"score": 0.4},
			},
		},
	}

	snaps := history.BuildSnapshots(entries)
	require.Len(t, snaps, 1)
	require.NotNil(t, snaps[0].Total)
	assert.InDelta(t, 62.5, *snaps[0].Total, 1e-9)
	require.NotNil(t, snaps[0].Clarity)
	require.NotNil(t, snaps[0].WPM)
	assert.InDelta(t, 138.0, *snaps[0].WPM, 1e-9)
	require.NotNil(t, snaps[0].StarCoverage)
	assert.InDelta(t, 2, *snaps[0].StarCoverage, 1e-9)
	require.NotNil(t, snaps[0].ResultStrength)
	assert.InDelta(t, 0.4, *snaps[0].ResultStrength, 1e-9)
}

func TestBuildSnapshotsHandlesJSONStringExplanations(t *testing.T) {
	t.Parallel()
	entries := []any{
		map[string]any{
			"scores":       map[string]any{"total": "71"},
			"explanations": `{"fillers_per_100w": 2.0, "result_strength": 0.55}`,
		},
	}

	snaps := history.BuildSnapshots(entries)
	require.Len(t, snaps, 1)
	require.NotNil(t, snaps[0].Total)
	assert.InDelta(t, 71, *snaps[0].Total, 1e-9)
	require.NotNil(t, snaps[0].FillersPer100W)
	assert.InDelta(t, 2.0, *snaps[0].FillersPer100W, 1e-9)
	// flattened result_strength still parses
	require.NotNil(t, snaps[0].ResultStrength)
	assert.InDelta(t, 0.55, *snaps[0].ResultStrength, 1e-9)
}

func TestBuildSnapshotsRecomputesFromTranscript(t *testing.T) {
	t.Parallel()
	entries := []any{
		map[string]any{
			"transcript":       "Um I think we did some work and as a result it improved by 20%.",
			"duration_seconds": 30.0,
		},
	}

	snaps := history.BuildSnapshots(entries)
	require.Len(t, snaps, 1)
	assert.Nil(t, snaps[0].Total)
	require.NotNil(t, snaps[0].FillersPer100W)
	assert.Greater(t, *snaps[0].FillersPer100W, 0.0)
	require.NotNil(t, snaps[0].ResultStrength)
	assert.Greater(t, *snaps[0].ResultStrength, 0.0)
	require.NotNil(t, snaps[0].WPM)
	assert.InDelta(t, 30.0, *snaps[0].WPM, 1e-9) // 15 words over half a minute
}

func TestBuildSnapshotsSkipsMalformedEntries(t *testing.T) {
	t.Parallel()
	snaps := history.BuildSnapshots([]any{"not a record", 42, nil, map[string]any{}})
	assert.Len(t, snaps, 1)
}

func TestSummarizeTotalsAndDeltas(t *testing.T) {
	t.Parallel()
	snaps := []history.Snapshot{
		{Total: f(50), FillersPer100W: f(5.0), StarCoverage: f(2), ResultStrength: f(0.2), WPM: f(150)},
		{Total: f(64)},
		{Total: f(58)},
	}
	cur := history.Current{
		Total:          72.25,
		FillersPer100W: 1.5,
		HedgesPer100W:  0.8,
		ResultStrength: 0.6,
		StarCoverage:   4,
		WPM:            f(120),
	}

	sum := history.Summarize(snaps, cur)

	assert.Equal(t, 3, sum.AttemptCount)
	require.NotNil(t, sum.LastTotal)
	assert.InDelta(t, 50, *sum.LastTotal, 1e-9)
	require.NotNil(t, sum.BestTotal)
	assert.InDelta(t, 64, *sum.BestTotal, 1e-9)
	require.NotNil(t, sum.AvgTotal)
	assert.InDelta(t, (50+64+58)/3.0, *sum.AvgTotal, 1e-9)
	require.NotNil(t, sum.DeltaTotal)
	assert.InDelta(t, 22.3, *sum.DeltaTotal, 1e-9) // rounded to one decimal

	require.NotNil(t, sum.MetricDeltas["fillers_per_100w"])
	assert.InDelta(t, -3.5, *sum.MetricDeltas["fillers_per_100w"], 1e-9)
	require.NotNil(t, sum.MetricDeltas["star_coverage"])
	assert.InDelta(t, 2, *sum.MetricDeltas["star_coverage"], 1e-9)
	require.NotNil(t, sum.MetricDeltas["wpm"])
	assert.InDelta(t, -30, *sum.MetricDeltas["wpm"], 1e-9)
	// last snapshot has no hedges value, so no delta
	assert.Nil(t, sum.MetricDeltas["hedges_per_100w"])
	assert.Empty(t, sum.PersistingFlags)
}

func TestSummarizePersistingFlags(t *testing.T) {
	t.Parallel()
	snaps := []history.Snapshot{
		{Total: f(40), FillersPer100W: f(4.0), StarCoverage: f(1), ResultStrength: f(0.3)},
	}
	cur := history.Current{
		Total:          41,
		FillersPer100W: 3.0,
		ResultStrength: 0.4,
		StarCoverage:   2,
	}

	sum := history.Summarize(snaps, cur)
	assert.ElementsMatch(t, []string{"result_strength", "fillers", "structure"}, sum.PersistingFlags)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	t.Parallel()
	sum := history.Summarize(nil, history.Current{Total: 80})
	assert.Zero(t, sum.AttemptCount)
	assert.Nil(t, sum.LastTotal)
	assert.Nil(t, sum.DeltaTotal)
	assert.Empty(t, sum.PersistingFlags)
}

func f(v float64) *float64 { return &v }
