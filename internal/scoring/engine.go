// Package scoring implements the synchronous answer-scoring engine. Score is
// a pure function of the request and the loaded configuration; all I/O
// (transport, speech-to-text, video analysis, persistence) lives with the
// callers.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/history"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/lexicon"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/rubric"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/signal"
)

// Engine scores one answer at a time. It is stateless apart from the
// immutable configuration, so a single instance is safe for concurrent use.
type Engine struct {
	cfg config.Scoring
}

// NewEngine returns an engine bound to the given scoring configuration.
func NewEngine(cfg config.Scoring) *Engine {
	return &Engine{cfg: cfg}
}

func clamp(v float64) float64 { return clampRange(v, 0, 1) }

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func bool01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Score evaluates a transcript against its question rubric and returns the
// full scoring record.
func (e *Engine) Score(req domain.ScoreRequest) (domain.ScoreResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return domain.ScoreResult{}, fmt.Errorf("op=scoring.Score: empty transcript: %w", domain.ErrInvalidArgument)
	}
	if req.DurationSeconds < 0 {
		return domain.ScoreResult{}, fmt.Errorf("op=scoring.Score: negative duration: %w", domain.ErrInvalidArgument)
	}

	th := e.cfg.Thresholds
	b := signal.Extract(req.Transcript)
	words := b.WordCount
	minutes := math.Max(0.001, float64(req.DurationSeconds)/60)
	wpm := float64(words) / minutes

	lower := strings.ToLower(req.Transcript)
	metrics := map[string]float64{
		"actions_density":  b.Actions.Density,
		"result_strength":  b.Result.Score,
		"has_numbers":      bool01(b.Quant.HasNumbers),
		"reflection":       bool01(b.Reflection.Present),
		"star_coverage":    float64(b.Star.CueCoverage),
		"has_requirements": bool01(lexicon.ContainsAny(lower, lexicon.RequirementsTerms)),
		"has_tradeoffs":    bool01(lexicon.ContainsAny(lower, lexicon.TradeoffTerms)),
		"has_reliability":  bool01(lexicon.ContainsAny(lower, lexicon.ReliabilityTerms)),
		"has_edges":        bool01(lexicon.ContainsAny(lower, lexicon.EdgeTerms)),
		"has_complexity":   bool01(lexicon.ContainsAny(lower, lexicon.ComplexityTerms)),
		"has_scaling":      bool01(lexicon.ContainsAny(lower, lexicon.ScalingTerms)),
		"has_data":         bool01(lexicon.ContainsAny(lower, lexicon.DataTerms)),
		"has_api":          bool01(lexicon.ContainsAny(lower, lexicon.APITerms)),
	}

	rb := rubric.Resolve(req.QuestionID, req.Question)
	align := rubric.Evaluate(rb, req.Transcript, metrics)
	mode := rb.Mode

	snapshots := history.BuildSnapshots(req.History)
	var last history.Snapshot
	if len(snapshots) > 0 {
		last = snapshots[0]
	}

	// Base dimensions
	clarity := 1.0
	clarity -= clampRange((b.Fillers.Per100W-1.8)/6, 0, 0.7)
	clarity -= clampRange((b.Hedges.Per100W-1.2)/5, 0, 0.5)
	if b.Sentences.AvgLen > th.MaxAvgSentence*0.875 {
		clarity -= 0.18
	}
	if b.Lexical.Diversity < 0.36 {
		clarity -= 0.12
	} else if b.Lexical.Diversity > 0.52 {
		clarity += 0.05
	}
	clarity = clamp(clarity)

	pacing := 1.0
	if wpm < 100 {
		pacing -= clampRange((100-wpm)/80, 0, 0.6)
	} else if wpm > 190 {
		pacing -= clampRange((wpm-190)/90, 0, 0.6)
	}
	if float64(req.DurationSeconds) < 50 || float64(req.DurationSeconds) > 160 {
		pacing -= 0.25
	}
	pacing = clamp(pacing)

	structure := float64(b.Star.Coverage) / 4
	if b.Sequence.Ordered && b.Star.Coverage >= 3 {
		structure += 0.15
	}
	if b.Reflection.Present {
		structure += 0.05
	}
	structure = clamp(structure)

	content := 0.0
	content += clampRange(b.Actions.Density/0.018, 0, 0.45)
	content += 0.42 * b.Result.Score
	if b.Quant.HasNumbers {
		content += 0.12
	}
	if b.Reflection.Present {
		content += 0.08
	}
	content -= math.Min(0.4, b.Vagueness.Penalty)
	content = clamp(content)

	conf := 0.92
	conf -= clampRange(b.Hedges.Per100W/7, 0, 0.6)
	conf -= clampRange((b.Fillers.Per100W-1.2)/8, 0, 0.3)
	if b.Ownership.IRatio < 0.45 {
		conf -= 0.2
	} else if b.Ownership.IRatio > 0.88 {
		conf -= 0.08
	}
	if b.Reflection.Present {
		conf += 0.03
	}
	conf = clamp(conf)

	// Alignment renormalization and brevity dampening
	alignment := align.Score
	metTopics := 0
	for _, t := range align.Topics {
		if t.Met {
			metTopics++
		}
	}
	topicRatio := 1.0
	if len(align.Topics) > 0 {
		topicRatio = float64(metTopics) / float64(len(align.Topics))
	}

	sentenceCount := len(b.Sentences.Sentences)
	brevityPenalty := 0.0
	if words < th.MinTokens {
		brevityPenalty = math.Min(0.7, float64(th.MinTokens-words)/80)
	}
	brevityFactor := math.Max(0.2, 1-brevityPenalty)
	if sentenceCount < 2 {
		brevityFactor = math.Max(0.2, brevityFactor*0.5)
	}

	penalty := align.Penalty
	structureFactor := math.Max(0, math.Min(alignment, topicRatio)) * brevityFactor
	structure = clamp(structure * structureFactor)
	content = clamp(content*alignment*brevityFactor - penalty)
	clarity = clamp(clarity * (0.55 + 0.45*alignment) * math.Max(0.3, brevityFactor))
	conf = clamp(conf*(0.6+0.4*alignment)*math.Max(0.35, brevityFactor) - penalty*0.5)
	pacing = clamp(pacing * (0.5 + 0.5*alignment) * math.Max(0.35, brevityFactor))

	shortAnswer := words < 50 || sentenceCount < 2

	// Trend nudges against the most recent attempt
	var deltaFillersPrev, deltaResultPrev *float64
	if last.FillersPer100W != nil {
		d := *last.FillersPer100W - b.Fillers.Per100W
		deltaFillersPrev = &d
		if d >= 0.5 {
			clarity = clamp(clarity + math.Min(0.06, d/12))
		} else if d <= -0.5 {
			clarity -= math.Min(0.05, math.Abs(d)/10)
		}
	}
	if last.ResultStrength != nil {
		d := b.Result.Score - *last.ResultStrength
		deltaResultPrev = &d
		if d >= 0.15 {
			content = clamp(content + math.Min(0.06, d/2))
		} else if d <= -0.15 {
			content -= math.Min(0.06, math.Abs(d)/2)
		}
	}
	if last.StarCoverage != nil && b.Star.Coverage >= 3 && *last.StarCoverage < 3 {
		structure = clamp(structure + 0.05)
	}
	if last.WPM != nil {
		d := wpm - *last.WPM
		if math.Abs(d) > 25 {
			pacing -= math.Min(0.08, math.Abs(d)/200)
		}
	}
	clarity = clamp(clarity)
	content = clamp(content)
	pacing = clamp(pacing)

	// Nonverbal adjustments; a failed video record is ignored entirely.
	var videoIssues []domain.Issue
	if !req.Video.Failed() {
		v := req.Video
		if v.EyeContactScore >= 0.7 {
			conf = clamp(conf + 0.06)
		} else if v.EyeContactScore < 0.3 {
			conf = clamp(conf - 0.08)
			videoIssues = append(videoIssues, e.issue("low_eye_contact",
				fmt.Sprintf("eye_contact_score=%.2f", v.EyeContactScore)))
		}
		if v.FacePresenceScore < 0.5 {
			conf = clamp(conf - 0.1)
			videoIssues = append(videoIssues, e.issue("low_face_presence",
				fmt.Sprintf("face_presence_score=%.2f", v.FacePresenceScore)))
		}
	}

	sub := map[string]float64{
		"structure":   structure,
		"relevance":   clamp(alignment),
		"clarity":     clarity,
		"conciseness": clamp((1 - brevityPenalty + pacing) / 2),
		"delivery":    conf,
		"technical":   content,
	}
	if mode == rubric.ModeTechnical {
		sub["technical"] = clamp(content + 0.1)
		missing := countMissing(metrics, "has_requirements", "has_tradeoffs", "has_complexity", "has_edges")
		if p := math.Min(0.25, 0.05*float64(missing)); p > 0 {
			sub["technical"] = clamp(sub["technical"] - p)
			sub["relevance"] = clamp(sub["relevance"] - p*0.6)
		}
	}
	if mode == rubric.ModeSystemDesign {
		missing := countMissing(metrics, "has_requirements", "has_scaling", "has_data", "has_tradeoffs", "has_reliability")
		if p := math.Min(0.3, 0.05*float64(missing)); p > 0 {
			sub["technical"] = clamp(sub["technical"] - p)
			sub["relevance"] = clamp(sub["relevance"] - p*0.6)
		}
	}
	if float64(req.DurationSeconds) > th.IdealDurationSeconds*1.4 {
		sub["conciseness"] = clamp(sub["conciseness"] - 0.2)
	}

	weights := e.cfg.WeightsFor(string(mode)).Map()
	var weightSum, weighted float64
	for k, v := range sub {
		w := weights[k]
		weightSum += w
		weighted += v * w
	}
	var overall float64
	if weightSum > 0 {
		overall = round1(weighted / weightSum * 100)
	} else {
		var sum float64
		for _, v := range sub {
			sum += v
		}
		overall = round1(sum / float64(len(sub)) * 100)
	}

	subscores := make(map[string]float64, len(sub))
	for k, v := range sub {
		subscores[k] = round1(v * 100)
	}

	summary := history.Summarize(snapshots, history.Current{
		Total:          overall,
		FillersPer100W: b.Fillers.Per100W,
		HedgesPer100W:  b.Hedges.Per100W,
		ResultStrength: b.Result.Score,
		StarCoverage:   float64(b.Star.Coverage),
		WPM:            &wpm,
	})

	issues := e.collectIssues(sub, b, videoIssues)
	suggestions := e.rankSuggestions(b, align, summary, wpm, shortAnswer)
	strengths := e.collectStrengths(b, align, summary, sub, req.Video, deltaFillersPrev, deltaResultPrev)

	explanations := map[string]any{
		"wpm":                round1(wpm),
		"avg_sentence_len":   round1(b.Sentences.AvgLen),
		"fillers_per_100w":   math.Round(b.Fillers.Per100W*100) / 100,
		"hedges_per_100w":    math.Round(b.Hedges.Per100W*100) / 100,
		"action_density":     math.Round(b.Actions.Density*10000) / 10000,
		"i_we":               b.Ownership,
		"quantification":     b.Quant,
		"star":               b.Star,
		"sequence":           b.Sequence,
		"result_strength":    b.Result,
		"vagueness":          b.Vagueness,
		"lexical":            b.Lexical,
		"reflection":         b.Reflection,
		"question_alignment": align,
	}
	detected := map[string]any{
		"fillers":            b.Fillers.Details,
		"hedges":             b.Hedges.Details,
		"action_verbs":       b.Actions.Examples,
		"numbers":            b.Quant.Numbers,
		"time_terms":         b.Quant.TimeTerms,
		"sentences":          b.Sentences.Sentences,
		"reflection_phrases": b.Reflection.Phrases,
		"question_alignment": align,
	}

	scores := make(map[string]float64, len(subscores)+1)
	for k, v := range subscores {
		scores[k] = v
	}
	scores["total"] = overall

	return domain.ScoreResult{
		OverallScore: overall,
		Subscores:    subscores,
		Issues:       issues,
		Explain: domain.Explain{
			Weights: weights,
			Signals: map[string]float64{
				"star_coverage":       float64(b.Star.Coverage),
				"result_strength":     b.Result.Score,
				"filler_rate":         b.Fillers.Per100W,
				"hedge_rate":          b.Hedges.Per100W,
				"wpm":                 wpm,
				"avg_sentence_length": b.Sentences.AvgLen,
			},
		},
		Scores:            scores,
		Explanations:      explanations,
		Detected:          detected,
		Suggestions:       suggestions,
		Strengths:         strengths,
		HistorySummary:    summary,
		QuestionAlignment: align,
	}, nil
}

func countMissing(metrics map[string]float64, keys ...string) int {
	n := 0
	for _, k := range keys {
		if metrics[k] == 0 {
			n++
		}
	}
	return n
}

func (e *Engine) issue(issueType, evidence string) domain.Issue {
	meta := e.cfg.IssueMetaFor(issueType)
	return domain.Issue{
		Type:            issueType,
		Severity:        meta.Severity,
		EvidenceSnippet: evidence,
		FixSuggestion:   meta.FixMessage,
	}
}

func (e *Engine) collectIssues(sub map[string]float64, b signal.Bundle, videoIssues []domain.Issue) []domain.Issue {
	th := e.cfg.Thresholds
	issues := []domain.Issue{}
	sentences := b.Sentences.Sentences

	if sub["structure"] < 0.6 && len(sentences) > 0 {
		issues = append(issues, e.issue("missing_star", sentences[0]))
	}
	if sub["relevance"] < th.RelevanceFloor && len(sentences) > 0 {
		issues = append(issues, e.issue("low_relevance", sentences[0]))
		// below the hard floor the answer is treated as off-topic outright
		if sub["relevance"] < th.RelevanceHardFloor {
			issues = append(issues, e.issue("relevance", sentences[0]))
		}
	}
	if sub["conciseness"] < 0.55 && len(sentences) > 0 {
		issues = append(issues, e.issue("rambling", sentences[len(sentences)-1]))
	}
	if b.Fillers.Per100W > th.MaxFillerPer100 {
		parts := make([]string, 0, 3)
		for i, d := range b.Fillers.Details {
			if i == 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", d.Term, d.Count))
		}
		issues = append(issues, e.issue("filler_heavy", strings.Join(parts, ", ")))
	}
	return append(issues, videoIssues...)
}

type rankedSuggestion struct {
	priority float64
	text     string
}

// rankSuggestions accumulates candidate focus areas with priorities,
// deduplicates by text, and keeps the top six.
func (e *Engine) rankSuggestions(b signal.Bundle, align domain.Alignment, summary domain.HistorySummary, wpm float64, shortAnswer bool) []string {
	var candidates []rankedSuggestion
	seen := map[string]struct{}{}
	add := func(priority float64, text string) {
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		candidates = append(candidates, rankedSuggestion{priority, text})
	}

	if shortAnswer {
		add(0.995, "Expand your answer with concrete situation, actions, and results; this was too brief to evaluate.")
	}
	for i, s := range align.Suggestions {
		add(0.98-float64(i)*0.02, s)
	}
	var missingTags []string
	for _, tag := range []string{"s", "t", "a", "r"} {
		if !b.Star.Tags[tag] {
			missingTags = append(missingTags, strings.ToUpper(tag))
		}
	}
	if len(missingTags) > 0 {
		add(0.95, fmt.Sprintf("Cover all STAR parts; you still need %s in this story.", strings.Join(missingTags, ", ")))
	}
	if b.Result.Score < 0.5 {
		add(0.9, "Make the result explicit near the end with concrete impact (metrics, user outcome).")
	}
	if !b.Quant.HasNumbers {
		add(0.75, "Quantify impact (%, time saved, errors reduced, users reached).")
	}
	if b.Fillers.Per100W > 2.2 {
		add(0.7, fmt.Sprintf("Reduce fillers; heard ~%.1f/100w (target <=1.5). Practice pausing before key points.", b.Fillers.Per100W))
	}
	if b.Hedges.Per100W > 1.6 {
		add(0.65, "Trim hedging phrases (swap 'I think' for confident action verbs).")
	}
	if b.Vagueness.Penalty > 0 {
		terms := make([]string, 0, 3)
		for i, h := range b.Vagueness.Hits {
			if i == 3 {
				break
			}
			terms = append(terms, h.Term)
		}
		add(0.6, fmt.Sprintf("Be more specific; avoid vague phrasing (%s). Give concrete steps.", strings.Join(terms, ", ")))
	}
	if !b.Reflection.Present {
		add(0.45, "Close with a quick reflection or learning for continued growth.")
	}
	if b.Lexical.Diversity < 0.35 {
		add(0.4, "Vary language; repeat fewer phrases and add unique specifics to each section.")
	}
	if wpm < 110 || wpm > 175 {
		add(0.5, fmt.Sprintf("Adjust pacing to ~110-170 WPM (currently %d WPM).", int(math.Round(wpm))))
	}

	if summary.DeltaTotal != nil && *summary.DeltaTotal < -2 {
		add(1.0, fmt.Sprintf("Overall score dipped %.1f vs last attempt; review your structure and clarity notes before re-running.", math.Abs(*summary.DeltaTotal)))
	}
	if d := summary.MetricDeltas["fillers_per_100w"]; d != nil && *d > 0.4 {
		add(0.7, fmt.Sprintf("Fillers crept up by +%.1f/100w compared with last run; reset with deliberate pauses.", *d))
	}
	if d := summary.MetricDeltas["result_strength"]; d != nil && *d < -0.15 {
		add(0.8, "Impact statement weakened versus last time; close with outcome + metrics again.")
	}
	for _, flag := range summary.PersistingFlags {
		switch flag {
		case "result_strength":
			add(0.9, "Across attempts the result is still vague; plan a crisp final sentence with numbers before recording.")
		case "fillers":
			add(0.75, "Fillers remain above target across sessions; script transitions to stay concise.")
		case "structure":
			add(0.85, "Structure remains a gap; outline Situation, Task, Action, Result before hitting record.")
		}
	}

	// stable sort keeps insertion order for equal priorities
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority > candidates[j].priority
	})
	out := make([]string, 0, 6)
	for i, c := range candidates {
		if i == 6 {
			break
		}
		out = append(out, c.text)
	}
	return out
}

func (e *Engine) collectStrengths(b signal.Bundle, align domain.Alignment, summary domain.HistorySummary, sub map[string]float64, video *domain.VideoMetrics, deltaFillers, deltaResult *float64) []string {
	var strengths []string
	seen := map[string]struct{}{}
	add := func(text string) {
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		strengths = append(strengths, text)
	}

	for _, label := range align.Strengths {
		add(label + " - strong alignment with the prompt.")
	}
	if b.Star.Coverage >= 3 {
		add("Strong storytelling arc; most STAR elements are present.")
	}
	if b.Result.Score >= 0.7 {
		add("Clear impact statement with tangible results.")
	}
	if b.Quant.HasNumbers {
		add("Nice use of metrics to ground the story.")
	}
	if b.Reflection.Present {
		add("Thoughtful takeaway at the end keeps the answer growth-oriented.")
	}
	if b.Fillers.Per100W <= 1.2 {
		add(fmt.Sprintf("Very low filler rate (~%.1f/100w).", b.Fillers.Per100W))
	}
	if sub["delivery"] > 0.8 {
		add("Confident delivery with minimal hedging.")
	}
	if !video.Failed() && video.EyeContactScore >= 0.7 {
		add("Steady eye contact keeps the delivery engaging.")
	}
	if summary.DeltaTotal != nil && *summary.DeltaTotal > 0 {
		add(fmt.Sprintf("Overall score up %.1f vs last run; keep that momentum.", *summary.DeltaTotal))
	}
	if deltaFillers != nil && *deltaFillers > 0.4 {
		add(fmt.Sprintf("Fillers down %.1f/100w compared with last attempt; great control.", *deltaFillers))
	}
	if deltaResult != nil && *deltaResult > 0.15 {
		add("Impact statement sharper than last attempt.")
	}
	if len(strengths) > 5 {
		strengths = strengths[:5]
	}
	return strengths
}
