package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights maps composite dimensions to their contribution. Missing or zero
// entries are excluded from the weighted average, so partial overrides
// rebalance rather than break the composite.
type Weights struct {
	Structure   float64 `yaml:"structure"`
	Relevance   float64 `yaml:"relevance"`
	Clarity     float64 `yaml:"clarity"`
	Conciseness float64 `yaml:"conciseness"`
	Delivery    float64 `yaml:"delivery"`
	Technical   float64 `yaml:"technical"`
}

// Sum returns the total weight mass.
func (w Weights) Sum() float64 {
	return w.Structure + w.Relevance + w.Clarity + w.Conciseness + w.Delivery + w.Technical
}

// Map returns the weights keyed by dimension name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"structure":   w.Structure,
		"relevance":   w.Relevance,
		"clarity":     w.Clarity,
		"conciseness": w.Conciseness,
		"delivery":    w.Delivery,
		"technical":   w.Technical,
	}
}

// Thresholds are the tunable gates used by the composite scorer.
type Thresholds struct {
	// MaxFillerPer100 is the filler rate above which the filler_heavy
	// issue fires.
	MaxFillerPer100 float64 `yaml:"max_filler_per_100"`
	// MaxAvgSentence is the average sentence length (words) above which
	// clarity is penalized.
	MaxAvgSentence float64 `yaml:"max_avg_sentence"`
	// MinTokens is the word count below which the brevity penalty ramps up.
	MinTokens int `yaml:"min_tokens"`
	// IdealDurationSeconds anchors the pacing and conciseness checks.
	IdealDurationSeconds float64 `yaml:"ideal_duration_seconds"`
	// RelevanceFloor is the alignment score below which low_relevance fires.
	RelevanceFloor float64 `yaml:"relevance_floor"`
	// RelevanceHardFloor is the alignment score below which the answer is
	// treated as off-topic.
	RelevanceHardFloor float64 `yaml:"relevance_hard_floor"`
}

// IssueMeta is the user-facing metadata attached to a detected issue type.
type IssueMeta struct {
	Severity   string `yaml:"severity"`
	FixMessage string `yaml:"fix_message"`
}

// Scoring bundles weights, per-mode weight overrides, thresholds, and the
// issue-type table.
type Scoring struct {
	Weights     Weights              `yaml:"weights"`
	ModeWeights map[string]Weights   `yaml:"mode_weights"`
	Thresholds  Thresholds           `yaml:"thresholds"`
	Issues      map[string]IssueMeta `yaml:"issues"`
}

// IssueMetaFor returns the metadata for an issue type, falling back to the
// built-in entry when the loaded table lacks it.
func (s Scoring) IssueMetaFor(issueType string) IssueMeta {
	if m, ok := s.Issues[issueType]; ok {
		return m
	}
	return defaultIssueTable()[issueType]
}

// WeightsFor returns the weight set for a question mode, falling back to
// the global weights when the mode has no override.
func (s Scoring) WeightsFor(mode string) Weights {
	if w, ok := s.ModeWeights[mode]; ok && w.Sum() > 0 {
		return w
	}
	return s.Weights
}

// DefaultScoring returns the built-in weights and thresholds.
func DefaultScoring() Scoring {
	return Scoring{
		Weights: Weights{
			Structure:   0.22,
			Relevance:   0.20,
			Clarity:     0.18,
			Conciseness: 0.15,
			Delivery:    0.15,
			Technical:   0.10,
		},
		Thresholds: Thresholds{
			MaxFillerPer100:      2.5,
			MaxAvgSentence:       32,
			MinTokens:            60,
			IdealDurationSeconds: 150,
			RelevanceFloor:       0.5,
			RelevanceHardFloor:   0.35,
		},
		Issues: defaultIssueTable(),
	}
}

func defaultIssueTable() map[string]IssueMeta {
	return map[string]IssueMeta{
		"missing_star": {
			Severity:   "medium",
			FixMessage: "Structure your answer with Situation, Task, Action, and Result.",
		},
		"low_relevance": {
			Severity:   "medium",
			FixMessage: "Tie your answer more directly to the question prompt.",
		},
		"relevance": {
			Severity:   "high",
			FixMessage: "Answer the question that was asked before adding context.",
		},
		"rambling": {
			Severity:   "low",
			FixMessage: "Aim for 1.5-2.5 minutes. Cut filler sentences.",
		},
		"filler_heavy": {
			Severity:   "low",
			FixMessage: `Pause instead of saying "um", "uh", or "like".`,
		},
		"low_eye_contact": {
			Severity:   "low",
			FixMessage: "Look at the camera more often to simulate eye contact.",
		},
		"low_face_presence": {
			Severity:   "medium",
			FixMessage: "Stay centered in frame so the interviewer can see you.",
		},
	}
}

// LoadScoring reads a YAML override file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func LoadScoring(path string) (Scoring, error) {
	cfg := DefaultScoring()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Scoring{}, fmt.Errorf("op=config.LoadScoring path=%s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Scoring{}, fmt.Errorf("op=config.LoadScoring path=%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Scoring{}, err
	}
	return cfg, nil
}

// Validate rejects weight sets that would make the composite undefined.
func (s Scoring) Validate() error {
	if s.Weights.Sum() <= 0 {
		return fmt.Errorf("op=config.Validate: weights sum to %.3f, want > 0", s.Weights.Sum())
	}
	for mode, w := range s.ModeWeights {
		if w.Sum() <= 0 {
			return fmt.Errorf("op=config.Validate: mode=%s weights sum to %.3f, want > 0", mode, w.Sum())
		}
	}
	if s.Thresholds.MinTokens < 0 {
		return fmt.Errorf("op=config.Validate: min_tokens must be >= 0")
	}
	if s.Thresholds.IdealDurationSeconds <= 0 {
		return fmt.Errorf("op=config.Validate: ideal_duration_seconds must be > 0")
	}
	return nil
}
