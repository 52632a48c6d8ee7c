// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/observability"
	"github.com/fairyhunter13/interview-scorer/internal/scoring"
	"github.com/fairyhunter13/interview-scorer/pkg/textx"
)

// ReadinessCheck represents a single readiness probe result used by handlers.
type ReadinessCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details"`
}

// ScoreService wraps the scoring engine with input sanitization, logging,
// and metrics. The engine itself stays pure.
type ScoreService struct {
	Engine *scoring.Engine
}

// NewScoreService constructs a ScoreService with its dependencies.
func NewScoreService(engine *scoring.Engine) ScoreService {
	return ScoreService{Engine: engine}
}

// Score validates and sanitizes the request, runs the engine, and records
// outcome metrics.
func (s ScoreService) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	if req.Transcript == "" {
		return domain.ScoreResult{}, fmt.Errorf("%w: transcript required", domain.ErrInvalidArgument)
	}
	if req.DurationSeconds < 0 {
		return domain.ScoreResult{}, fmt.Errorf("%w: duration_seconds must be >= 0", domain.ErrInvalidArgument)
	}
	req.Transcript = textx.SanitizeTranscript(req.Transcript)
	req.Question = textx.FoldSpace(req.Question)

	// attempt_id correlates this scoring call across logs and any records
	// the caller persists from the response
	attemptID := uuid.NewString()

	start := time.Now()
	result, err := s.Engine.Score(req)
	if err != nil {
		observability.FailScore("unknown")
		return domain.ScoreResult{}, err
	}

	issueTypes := make([]string, 0, len(result.Issues))
	for _, iss := range result.Issues {
		issueTypes = append(issueTypes, iss.Type)
	}
	observability.ObserveScore(result.QuestionAlignment.Mode, result.OverallScore, issueTypes, time.Since(start))

	observability.LoggerFromContext(ctx).Info("answer scored",
		slog.String("attempt_id", attemptID),
		slog.String("question_id", result.QuestionAlignment.QuestionID),
		slog.String("mode", result.QuestionAlignment.Mode),
		slog.Float64("overall", result.OverallScore),
		slog.Int("issues", len(result.Issues)),
		slog.Int("attempts", result.HistorySummary.AttemptCount),
	)
	return result, nil
}

// Readiness returns readiness checks; the engine is in-process so the only
// dependency is the loaded configuration.
func (s ScoreService) Readiness(_ context.Context) []ReadinessCheck {
	return []ReadinessCheck{{Name: "engine", OK: s.Engine != nil}}
}
