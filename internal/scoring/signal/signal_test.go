package signal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-scorer/internal/scoring/signal"
)

const starTranscript = "At my internship our API latency spiked 60% during a tight deadline. " +
	"My task was to restore performance for our users quickly. " +
	"So I profiled the hot paths, I implemented caching, and I coordinated the rollout with the platform team. " +
	"As a result P95 latency dropped 42% in two days and users could check out without timeouts. " +
	"I learned to instrument first before changing code."

func TestExtractStarNarrative(t *testing.T) {
	t.Parallel()
	b := signal.Extract(starTranscript)

	assert.Equal(t, 4, b.Star.Coverage)
	assert.True(t, b.Star.Tags["s"])
	assert.True(t, b.Star.Tags["t"])
	assert.True(t, b.Star.Tags["a"])
	assert.True(t, b.Star.Tags["r"])
	assert.Equal(t, 3, b.Star.CueCoverage)
	assert.True(t, b.Sequence.Ordered)
	assert.Equal(t, 4, b.Sequence.Observed)

	assert.GreaterOrEqual(t, b.Result.Score, 0.55)
	assert.True(t, b.Result.HasNumbers)
	assert.True(t, b.Quant.HasNumbers)
	assert.Contains(t, b.Quant.Numbers, "60%")
	assert.Contains(t, b.Quant.TimeTerms, "days")

	assert.Zero(t, b.Fillers.Total)
	assert.True(t, b.Reflection.Present)
	require.Len(t, b.Sentences.Sentences, 5)
	assert.InDelta(t, 13.0, b.Sentences.AvgLen, 0.01)
	assert.Equal(t, 2, b.Actions.Count) // profiled, implemented
}

func TestExtractFillerHeavy(t *testing.T) {
	t.Parallel()
	b := signal.Extract("Um so I was like the lead and um I think we did stuff. Um it was, like, hard stuff.")

	assert.Equal(t, 5, b.Fillers.Total) // um x3, like x2
	assert.InDelta(t, 25.0, b.Fillers.Per100W, 0.01)
	assert.Equal(t, 1, b.Hedges.Total) // i think
	assert.False(t, b.Quant.HasNumbers)
	assert.False(t, b.Reflection.Present)
}

func TestExtractEmptyTranscriptIsFinite(t *testing.T) {
	t.Parallel()
	b := signal.Extract("")

	assert.Zero(t, b.WordCount)
	for _, v := range []float64{b.Fillers.Per100W, b.Hedges.Per100W, b.Actions.Density, b.Result.Score, b.Lexical.Diversity} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Empty(t, b.Sentences.Sentences)
	assert.Equal(t, 0, b.Star.Coverage)
}

func TestOwnershipRatio(t *testing.T) {
	t.Parallel()
	b := signal.Extract("I decided and I moved while we waited.")
	assert.Equal(t, 2, b.Ownership.I)
	assert.Equal(t, 1, b.Ownership.We)
	assert.InDelta(t, 2.0/3.0, b.Ownership.IRatio, 1e-9)

	// neither pronoun: ratio defaults to the neutral midpoint
	b = signal.Extract("The team shipped the feature.")
	assert.InDelta(t, 0.5, b.Ownership.IRatio, 1e-9)
}

func TestVaguenessPenaltyCaps(t *testing.T) {
	t.Parallel()
	b := signal.Extract("We did some research on stuff and things, sort of worked, figured it out.")
	assert.Greater(t, b.Vagueness.Penalty, 0.0)
	assert.LessOrEqual(t, b.Vagueness.Penalty, 0.6)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()
	a := signal.Extract(starTranscript)
	b := signal.Extract(starTranscript)
	assert.Equal(t, a, b)
}
