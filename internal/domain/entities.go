// Package domain holds the core entities of the interview answer scorer.
package domain

import "errors"

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// VideoMetrics is the optional nonverbal signal record produced by the
// external video analyzer. When Err is non-empty the analysis failed and the
// whole record must be ignored.
type VideoMetrics struct {
	EyeContactScore   float64 `json:"eye_contact_score"`
	FacePresenceScore float64 `json:"face_presence_score"`
	SmileScore        float64 `json:"smile_score"`
	Err               string  `json:"error,omitempty"`
}

// Failed reports whether the video analysis produced no usable signal.
func (v *VideoMetrics) Failed() bool { return v == nil || v.Err != "" }

// ScoreRequest is one scoring call. History entries are loosely typed prior
// attempt records; malformed entries are skipped, never fatal.
type ScoreRequest struct {
	Question        string
	QuestionID      string
	Transcript      string
	DurationSeconds int
	History         []any
	Video           *VideoMetrics
}

// Issue is one detected problem with the answer, mapped through the
// configured issue table.
type Issue struct {
	Type            string `json:"type"`
	Severity        string `json:"severity"`
	EvidenceSnippet string `json:"evidenceSnippet"`
	FixSuggestion   string `json:"fixSuggestion"`
}

// TopicResult is the outcome of evaluating one rubric topic.
type TopicResult struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Met         bool     `json:"met"`
	Weight      float64  `json:"weight"`
	Evidence    string   `json:"evidence,omitempty"`
	KeywordsHit []string `json:"keywords_hit,omitempty"`
	MetricUsed  bool     `json:"metric_used"`
}

// Alignment aggregates topic results for the resolved rubric.
// Score is earned weight over total weight, clamped to [0,1]. Penalty is the
// negative-keyword deduction applied to downstream dimensions.
type Alignment struct {
	QuestionID    string        `json:"question_id,omitempty"`
	Mode          string        `json:"mode"`
	Score         float64       `json:"score"`
	Topics        []TopicResult `json:"topics"`
	MissingTopics []string      `json:"missing_topics"`
	Suggestions   []string      `json:"suggestions"`
	Strengths     []string      `json:"strengths"`
	Penalty       float64       `json:"penalty"`
	NegativeHits  []string      `json:"negative_hits,omitempty"`
}

// HistorySummary is the attempt-over-attempt trend report. Nil pointers mean
// the value is unknown (no prior attempt, or the prior record lacked it).
type HistorySummary struct {
	AttemptCount    int                 `json:"attempt_count"`
	LastTotal       *float64            `json:"last_total"`
	DeltaTotal      *float64            `json:"delta_total"`
	BestTotal       *float64            `json:"best_total"`
	AvgTotal        *float64            `json:"avg_total"`
	MetricDeltas    map[string]*float64 `json:"metric_deltas"`
	PersistingFlags []string            `json:"persisting_flags"`
	LastMetrics     any                 `json:"last_metrics"`
}

// Explain carries the resolved weights and a compact raw-signal summary so
// every sub-score traces back to concrete evidence.
type Explain struct {
	Weights map[string]float64 `json:"weights"`
	Signals map[string]float64 `json:"signals"`
}

// ScoreResult is the full scoring record for one answer. Scores,
// Explanations, and Detected keep the legacy response shape for callers that
// predate the subscores format.
type ScoreResult struct {
	OverallScore      float64            `json:"overallScore"`
	Subscores         map[string]float64 `json:"subscores"`
	Issues            []Issue            `json:"issues"`
	Explain           Explain            `json:"explain"`
	Scores            map[string]float64 `json:"scores"`
	Explanations      map[string]any     `json:"explanations"`
	Detected          map[string]any     `json:"detected"`
	Suggestions       []string           `json:"suggestions"`
	Strengths         []string           `json:"strengths"`
	HistorySummary    HistorySummary     `json:"history_summary"`
	QuestionAlignment Alignment          `json:"question_alignment"`
}
