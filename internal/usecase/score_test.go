package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/scoring"
	"github.com/fairyhunter13/interview-scorer/internal/usecase"
)

func newService() usecase.ScoreService {
	return usecase.NewScoreService(scoring.NewEngine(config.DefaultScoring()))
}

func TestScoreServiceRejectsEmptyTranscript(t *testing.T) {
	t.Parallel()
	svc := newService()

	_, err := svc.Score(context.Background(), domain.ScoreRequest{DurationSeconds: 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestScoreServiceSanitizesAndScores(t *testing.T) {
	t.Parallel()
	svc := newService()

	res, err := svc.Score(context.Background(), domain.ScoreRequest{
		Question:        "Tell me about   a challenge\tyou faced and how you handled it.",
		Transcript:      "We faced a hard problem.\x00 I implemented a fix and as a result errors dropped 30%.",
		DurationSeconds: 80,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.OverallScore, 0.0)
	assert.LessOrEqual(t, res.OverallScore, 100.0)
	assert.NotEmpty(t, res.Subscores)
	// the folded question still resolves to the catalog rubric
	assert.Equal(t, "challenge-star", res.QuestionAlignment.QuestionID)
	// the control character is stripped before the engine sees the text
	sentences, ok := res.Detected["sentences"].([]string)
	require.True(t, ok)
	require.NotEmpty(t, sentences)
	assert.Equal(t, "We faced a hard problem.", sentences[0])
}

func TestReadiness(t *testing.T) {
	t.Parallel()
	checks := newService().Readiness(context.Background())
	require.Len(t, checks, 1)
	assert.Equal(t, "engine", checks[0].Name)
	assert.True(t, checks[0].OK)

	checks = usecase.NewScoreService(nil).Readiness(context.Background())
	assert.False(t, checks[0].OK)
}
