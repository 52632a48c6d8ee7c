package rubric

import (
	"strings"

	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/lexicon"
)

// Evaluate scores a transcript against a rubric. A topic is met when any of
// its keywords occurs in the transcript or its metric spec is satisfied by
// the supplied signal metrics. The alignment score is earned weight over
// total weight, clamped to [0,1]. Negative keywords add a per-category
// penalty of min(0.12*hits, 0.25) without affecting the score itself.
func Evaluate(r Rubric, transcript string, metrics map[string]float64) domain.Alignment {
	lower := strings.ToLower(transcript)
	sentences := lexicon.SplitSentences(transcript)

	align := domain.Alignment{
		QuestionID:    r.ID,
		Mode:          string(r.Mode),
		Topics:        make([]domain.TopicResult, 0, len(r.Topics)),
		MissingTopics: []string{},
		Suggestions:   []string{},
		Strengths:     []string{},
	}

	var total, earned float64
	for _, t := range r.Topics {
		total += t.Weight
	}
	if total == 0 {
		total = 1
	}

	for _, t := range r.Topics {
		var hits []string
		for _, kw := range t.Keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		metricHit := metricSatisfied(t.Metric, metrics)
		met := len(hits) > 0 || metricHit

		evidence := ""
		for _, kw := range hits {
			if s := sentenceWith(sentences, kw); s != "" {
				evidence = s
				break
			}
		}
		if evidence == "" && metricHit && len(sentences) > 0 {
			evidence = strings.TrimSpace(sentences[len(sentences)-1])
		}

		if met {
			earned += t.Weight
			align.Strengths = append(align.Strengths, t.Label)
		} else {
			align.MissingTopics = append(align.MissingTopics, t.Label)
			remedy := t.Remedy
			if remedy == "" {
				remedy = t.Label
			}
			align.Suggestions = append(align.Suggestions, remedy)
		}

		align.Topics = append(align.Topics, domain.TopicResult{
			ID:          t.ID,
			Label:       t.Label,
			Met:         met,
			Weight:      t.Weight,
			Evidence:    evidence,
			KeywordsHit: hits,
			MetricUsed:  metricHit,
		})
	}

	score := earned / total
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	align.Score = score

	for _, patterns := range r.NegativeKeywords {
		var hit int
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				align.NegativeHits = append(align.NegativeHits, p)
				hit++
			}
		}
		if hit > 0 {
			p := 0.12 * float64(hit)
			if p > 0.25 {
				p = 0.25
			}
			align.Penalty += p
		}
	}
	if align.Penalty > 0 {
		align.Suggestions = append(align.Suggestions,
			"Avoid phrasing that sounds like blame; focus on your ownership and collaboration.")
	}

	return align
}

func metricSatisfied(spec *MetricSpec, metrics map[string]float64) bool {
	if spec == nil {
		return false
	}
	v, ok := metrics[spec.Name]
	if !ok {
		return false
	}
	switch spec.Compare {
	case CompareMin:
		return v >= spec.Threshold
	case CompareMax:
		return v <= spec.Threshold
	case CompareEquals:
		return (v != 0) == spec.Equals
	}
	return false
}

func sentenceWith(sentences []string, keyword string) string {
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), keyword) {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
