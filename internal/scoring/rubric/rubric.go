// Package rubric maps a question to a weighted topic rubric and evaluates a
// transcript against it. Known prompts resolve from a static catalog; novel
// prompts get a rubric synthesized from mode templates plus keywords pulled
// from the prompt itself, so every question is scoreable.
package rubric

import (
	"strings"

	"github.com/fairyhunter13/interview-scorer/internal/scoring/lexicon"
)

// Mode is the inferred question category driving rubric and weight
// selection.
type Mode string

// Question modes.
const (
	ModeBehavioral   Mode = "behavioral"
	ModeTechnical    Mode = "technical"
	ModeSystemDesign Mode = "system_design"
)

// Comparison selects how a metric spec is evaluated against the signal
// bundle.
type Comparison int

// Metric comparisons.
const (
	CompareMin Comparison = iota
	CompareMax
	CompareEquals
)

// MetricSpec references a named engine metric. For CompareEquals the metric
// is treated as a boolean (non-zero means true).
type MetricSpec struct {
	Name      string
	Compare   Comparison
	Threshold float64
	Equals    bool
}

// Topic is one expected content element. It is met when any keyword occurs
// in the transcript or the metric spec is satisfied.
type Topic struct {
	ID       string
	Label    string
	Weight   float64
	Keywords []string
	Metric   *MetricSpec
	Remedy   string
}

// Rubric is a question-mode-specific ordered topic list. Topic weights need
// not sum to 1; the evaluator normalizes. NegativeKeywords map a category
// (e.g. "blame") to phrases that incur a penalty.
type Rubric struct {
	ID               string
	Title            string
	Mode             Mode
	Topics           []Topic
	NegativeKeywords map[string][]string
}

func minMetric(name string, threshold float64) *MetricSpec {
	return &MetricSpec{Name: name, Compare: CompareMin, Threshold: threshold}
}

func equalsMetric(name string, want bool) *MetricSpec {
	return &MetricSpec{Name: name, Compare: CompareEquals, Equals: want}
}

// catalog holds the statically authored rubrics for known prompts.
var catalog = map[string]Rubric{
	"challenge-star": {
		ID:    "challenge-star",
		Title: "Tell me about a challenge you faced and how you handled it.",
		Mode:  ModeBehavioral,
		Topics: []Topic{
			{
				ID:       "challenge_context",
				Label:    "Describe the specific challenge, constraint, or stakes",
				Weight:   0.28,
				Keywords: []string{"challenge", "problem", "pressure", "blocked", "obstacle", "difficult", "hard", "tight deadline", "complex", "constraint", "limited"},
				Remedy:   "Name the concrete challenge or constraint you were up against before acting.",
			},
			{
				ID:       "ownership_actions",
				Label:    "Explain the decisive actions you personally took",
				Weight:   0.27,
				Keywords: []string{"i decided", "i started", "i built", "i implemented", "i led", "i partnered", "i coordinated", "i organized", "i drove", "i resolved"},
				Metric:   minMetric("actions_density", 0.015),
				Remedy:   "Spell out the concrete actions you personally took instead of general team effort.",
			},
			{
				ID:       "result",
				Label:    "Highlight a measurable or observable result",
				Weight:   0.27,
				Keywords: []string{"as a result", "resulted", "so that", "increased", "reduced", "impact", "outcome", "improved", "enabled"},
				Metric:   minMetric("result_strength", 0.55),
				Remedy:   "Close with a tangible outcome or metric so the impact is obvious.",
			},
			{
				ID:       "reflection",
				Label:    "Share what you learned or would do differently",
				Weight:   0.18,
				Keywords: []string{"learned", "lesson", "next time", "i now", "i realized", "i realised", "takeaway"},
				Metric:   equalsMetric("reflection", true),
				Remedy:   "Add a quick takeaway to show how the experience levelled you up.",
			},
		},
	},
	"conflict": {
		ID:    "conflict",
		Title: "Describe a time you had a conflict on a team. What did you do?",
		Mode:  ModeBehavioral,
		Topics: []Topic{
			{
				ID:       "conflict_setup",
				Label:    "Set the scene with the conflict and the other party",
				Weight:   0.3,
				Keywords: []string{"conflict", "disagreement", "tension", "pushback", "misaligned", "difference of opinion", "friction"},
				Remedy:   "Briefly name the disagreement and who was involved so the stakes are clear.",
			},
			{
				ID:       "other_party",
				Label:    "Reference the other stakeholder or team member",
				Weight:   0.18,
				Keywords: []string{"teammate", "coworker", "manager", "stakeholder", "partner", "client"},
				Remedy:   "Mention who you worked with so it's obvious this was a people challenge.",
			},
			{
				ID:       "collaboration_actions",
				Label:    "Explain how you listened, negotiated, or collaborated",
				Weight:   0.28,
				Keywords: []string{"listened", "empathized", "aligned", "understood", "compromise", "talked through", "facilitated", "mediated", "worked together"},
				Remedy:   "Describe the conversations or collaboration that resolved the conflict.",
			},
			{
				ID:       "resolution",
				Label:    "Provide a positive resolution and relationship outcome",
				Weight:   0.24,
				Keywords: []string{"resolved", "came to agreement", "aligned", "relationship", "trust", "we agreed", "win-win", "moved forward"},
				Metric:   minMetric("result_strength", 0.45),
				Remedy:   "Show how the conflict ended and what improved afterwards.",
			},
		},
		NegativeKeywords: map[string][]string{
			"blame": {"their fault", "they messed up", "i blamed", "they were wrong"},
		},
	},
	"impact": {
		ID:    "impact",
		Title: "What is a project you're proud of? What was the impact?",
		Mode:  ModeBehavioral,
		Topics: []Topic{
			{
				ID:       "project_overview",
				Label:    "Name the project and why it mattered",
				Weight:   0.25,
				Keywords: []string{"project", "initiative", "launched", "built", "designed", "shipped", "deployed"},
				Remedy:   "Introduce the project and the problem it solved before diving into impact.",
			},
			{
				ID:       "personal_role",
				Label:    "Clarify your personal ownership",
				Weight:   0.2,
				Keywords: []string{"i owned", "i led", "i was responsible", "i spearheaded", "i drove", "i architected"},
				Metric:   minMetric("actions_density", 0.017),
				Remedy:   "Call out exactly what you did so the interviewer can credit you.",
			},
			{
				ID:       "impact_metric",
				Label:    "Highlight the outcome with numbers or scale",
				Weight:   0.35,
				Keywords: []string{"impact", "result", "increase", "decrease", "improved", "customers", "users", "revenue", "conversion", "latency"},
				Metric:   equalsMetric("has_numbers", true),
				Remedy:   "Bring in a metric or tangible before/after change to prove the impact.",
			},
			{
				ID:       "reflection",
				Label:    "Share what success unlocked or what you learned next",
				Weight:   0.2,
				Keywords: []string{"we learned", "i learned", "next time", "this taught", "this meant", "as a result we could"},
				Metric:   equalsMetric("reflection", true),
				Remedy:   "Close with the broader takeaway or what you tackled next because of the win.",
			},
		},
	},
	"failure": {
		ID:    "failure",
		Title: "Tell me about a failure and what you learned.",
		Mode:  ModeBehavioral,
		Topics: []Topic{
			{
				ID:       "admit_failure",
				Label:    "Clearly state the failure or mistake",
				Weight:   0.3,
				Keywords: []string{"failed", "failure", "mistake", "missed", "broke", "went wrong", "error", "slipped"},
				Remedy:   "Be explicit about what went wrong so it feels candid.",
			},
			{
				ID:       "accountability",
				Label:    "Own your part without blaming others",
				Weight:   0.2,
				Keywords: []string{"my fault", "i overlooked", "i misjudged", "i assumed", "i underestimated", "i didn't"},
				Remedy:   "Explain your role in the failure instead of pushing blame outward.",
			},
			{
				ID:       "correction_actions",
				Label:    "Detail the actions you took to fix or mitigate",
				Weight:   0.25,
				Keywords: []string{"i fixed", "i corrected", "i addressed", "i changed", "i improved", "i put in place", "i reworked"},
				Remedy:   "Walk through the corrective steps you took to recover.",
			},
			{
				ID:       "lesson",
				Label:    "Share the learning and what you do differently now",
				Weight:   0.25,
				Keywords: []string{"since then", "now i", "i learned", "i make sure", "next time", "i realised", "i realized"},
				Metric:   equalsMetric("reflection", true),
				Remedy:   "Wrap up with what you changed going forward to show growth.",
			},
		},
		NegativeKeywords: map[string][]string{
			"blame": {"their fault", "they failed", "they messed up"},
		},
	},
}

// promptToID maps normalized catalog prompt texts to rubric ids.
var promptToID = map[string]string{
	lexicon.NormalizeQuestion("Tell me about a challenge you faced and how you handled it."): "challenge-star",
	lexicon.NormalizeQuestion("Describe a time you had a conflict on a team. What did you do?"): "conflict",
	lexicon.NormalizeQuestion("What is a project you’re proud of? What was the impact?"): "impact",
	lexicon.NormalizeQuestion("What's a project you're proud of? What was the impact?"):        "impact",
	lexicon.NormalizeQuestion("Tell me about a failure and what you learned."):                 "failure",
}

var (
	systemDesignCues = []string{"system", "architecture", "design"}
	technicalCues    = []string{"technical", "code", "algorithm", "debug"}
)

// InferMode derives the question mode from keyword cues in the id and
// prompt text.
func InferMode(questionID, questionText string) Mode {
	text := lexicon.NormalizeQuestion(questionID + questionText)
	if lexicon.ContainsAny(text, systemDesignCues) {
		return ModeSystemDesign
	}
	if lexicon.ContainsAny(text, technicalCues) {
		return ModeTechnical
	}
	return ModeBehavioral
}

// Resolve returns the rubric for a question: catalog by id, then catalog by
// normalized prompt text (exact or substring either way), then a mode
// template synthesized with keywords from the prompt itself.
func Resolve(questionID, questionText string) Rubric {
	if questionID != "" {
		if r, ok := catalog[lexicon.NormalizeQuestion(questionID)]; ok {
			return r
		}
	}
	normalized := lexicon.NormalizeQuestion(questionText)
	if id, ok := promptToID[normalized]; ok {
		return catalog[id]
	}
	if normalized != "" {
		for prompt, id := range promptToID {
			if strings.Contains(prompt, normalized) || strings.Contains(normalized, prompt) {
				return catalog[id]
			}
		}
	}
	return synthesize(InferMode(questionID, questionText), questionText)
}

// synthesize builds a rubric from the mode's topic template, injecting up to
// eight prompt keywords as additional topic signal.
func synthesize(mode Mode, questionText string) Rubric {
	kw := lexicon.ExtractKeywords(questionText, 8)
	r := Rubric{Title: questionText, Mode: mode}
	switch mode {
	case ModeTechnical:
		r.Topics = []Topic{
			{ID: "problem", Label: "Frame the problem and constraints", Weight: 0.18,
				Keywords: merge(lexicon.RequirementsTerms, kw),
				Metric:   equalsMetric("has_requirements", true),
				Remedy:   "Start by clarifying requirements, constraints, and goal."},
			{ID: "approach", Label: "Propose a concrete approach", Weight: 0.22,
				Keywords: []string{"approach", "solution", "algorithm", "design", "plan"},
				Metric:   minMetric("actions_density", 0.012),
				Remedy:   "Outline a step-by-step approach or algorithm."},
			{ID: "correctness", Label: "Address correctness and edge cases", Weight: 0.18,
				Keywords: merge(lexicon.EdgeTerms, []string{"test", "verify", "validate"}),
				Metric:   equalsMetric("has_edges", true),
				Remedy:   "Mention edge cases or how you would validate correctness."},
			{ID: "complexity", Label: "Discuss performance or complexity", Weight: 0.2,
				Keywords: merge(lexicon.ComplexityTerms, lexicon.ScalingTerms),
				Metric:   equalsMetric("has_complexity", true),
				Remedy:   "Call out performance considerations or complexity."},
			{ID: "tradeoffs", Label: "Explain tradeoffs", Weight: 0.22,
				Keywords: lexicon.TradeoffTerms,
				Metric:   equalsMetric("has_tradeoffs", true),
				Remedy:   "State tradeoffs (latency vs cost, consistency vs availability, etc.)."},
		}
	case ModeSystemDesign:
		r.Topics = []Topic{
			{ID: "requirements", Label: "Clarify requirements and constraints", Weight: 0.18,
				Keywords: merge(lexicon.RequirementsTerms, kw),
				Metric:   equalsMetric("has_requirements", true),
				Remedy:   "Start by defining requirements, scale, and constraints."},
			{ID: "architecture", Label: "Propose a high-level architecture", Weight: 0.22,
				Keywords: merge([]string{"architecture", "components", "services", "pipeline"}, lexicon.ScalingTerms),
				Remedy:   "Describe the major components and data flow."},
			{ID: "data", Label: "Cover data model or storage", Weight: 0.18,
				Keywords: merge(lexicon.DataTerms, []string{"cache", "index"}),
				Metric:   equalsMetric("has_data", true),
				Remedy:   "Call out what data you store and where."},
			{ID: "scale", Label: "Discuss scaling and reliability", Weight: 0.22,
				Keywords: merge(lexicon.ScalingTerms, lexicon.ReliabilityTerms),
				Metric:   equalsMetric("has_scaling", true),
				Remedy:   "Explain how the design handles scale, failures, and reliability."},
			{ID: "tradeoffs", Label: "Explain tradeoffs", Weight: 0.2,
				Keywords: lexicon.TradeoffTerms,
				Metric:   equalsMetric("has_tradeoffs", true),
				Remedy:   "State the tradeoffs you would make and why."},
		}
	default:
		r.Topics = []Topic{
			{ID: "situation", Label: "Set context and stakes", Weight: 0.2,
				Keywords: merge(lexicon.SituationCues, kw),
				Remedy:   "Open with the situation or context to set stakes quickly."},
			{ID: "task", Label: "Clarify your responsibility or goal", Weight: 0.18,
				Keywords: merge(lexicon.TaskCues, append([]string{"goal", "objective"}, kw...)),
				Remedy:   "State your role and what you needed to accomplish."},
			{ID: "action", Label: "Describe decisive actions you took", Weight: 0.26,
				Keywords: merge(lexicon.ActionCues, lexicon.ActionVerbs),
				Metric:   minMetric("actions_density", 0.014),
				Remedy:   "Emphasize the actions you personally took, not the team in general."},
			{ID: "result", Label: "Close with tangible results", Weight: 0.22,
				Keywords: merge(lexicon.ResultCues.Terms(), append([]string{"impact", "outcome", "improved"}, kw...)),
				Metric:   minMetric("result_strength", 0.45),
				Remedy:   "Finish with a measurable or observable outcome."},
			{ID: "reflection", Label: "Share a takeaway or learning", Weight: 0.14,
				Keywords: lexicon.ReflectionCues.Terms(),
				Metric:   equalsMetric("reflection", true),
				Remedy:   "Add a quick takeaway or what you'd do differently next time."},
		}
	}
	return r
}

func merge(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Catalog exposes a catalog rubric by id, primarily for tests and tooling.
func Catalog(id string) (Rubric, bool) {
	r, ok := catalog[id]
	return r, ok
}
