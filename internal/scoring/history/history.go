// Package history turns prior attempt records into per-metric snapshots and
// a trend summary. Records arrive from external persistence as loosely typed
// JSON, so parsing is lenient: malformed entries are skipped, missing values
// stay nil, and when a record lacks stored explanations the delivery metrics
// are recomputed from its transcript.
package history

import (
	"encoding/json"
	"math"

	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/scoring/signal"
)

// Snapshot is one prior attempt reduced to comparable metrics. Nil means
// the record did not carry the value and it could not be derived.
type Snapshot struct {
	Total          *float64 `json:"total"`
	Clarity        *float64 `json:"clarity,omitempty"`
	Concision      *float64 `json:"concision,omitempty"`
	Content        *float64 `json:"content,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	WPM            *float64 `json:"wpm,omitempty"`
	AvgSentenceLen *float64 `json:"avg_sentence_len,omitempty"`
	FillersPer100W *float64 `json:"fillers_per_100w,omitempty"`
	HedgesPer100W  *float64 `json:"hedges_per_100w,omitempty"`
	StarCoverage   *float64 `json:"star_coverage,omitempty"`
	ResultStrength *float64 `json:"result_strength,omitempty"`
}

// Current carries the in-flight attempt's metrics for trend comparison.
type Current struct {
	Total          float64
	FillersPer100W float64
	HedgesPer100W  float64
	ResultStrength float64
	StarCoverage   float64
	WPM            *float64
}

// BuildSnapshots converts raw history entries (newest first) into
// snapshots. Non-map entries are dropped. Stored scores and explanations
// win; otherwise metrics are recomputed from the entry's transcript.
func BuildSnapshots(entries []any) []Snapshot {
	snapshots := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		scores := asMap(m["scores"])
		explanations := asMap(m["explanations"])
		transcript, _ := m["transcript"].(string)
		duration := safeFloat(m["duration_seconds"])

		snap := Snapshot{
			Total:      safeFloat(scores["total"]),
			Clarity:    safeFloat(scores["clarity"]),
			Concision:  safeFloat(scores["concision"]),
			Content:    safeFloat(scores["content"]),
			Confidence: safeFloat(scores["confidence"]),
		}
		if len(explanations) > 0 {
			snap.WPM = safeFloat(explanations["wpm"])
			snap.AvgSentenceLen = safeFloat(explanations["avg_sentence_len"])
			snap.FillersPer100W = safeFloat(explanations["fillers_per_100w"])
			snap.HedgesPer100W = safeFloat(explanations["hedges_per_100w"])
			if star := asMap(explanations["star"]); star != nil {
				snap.StarCoverage = safeFloat(star["coverage"])
			}
			if res := asMap(explanations["result_strength"]); res != nil {
				snap.ResultStrength = safeFloat(res["score"])
			} else {
				// some stores flatten result_strength to a plain number
				if v := safeFloat(explanations["result_strength"]); v != nil {
					snap.ResultStrength = v
				}
			}
		} else if transcript != "" {
			b := signal.Extract(transcript)
			snap.FillersPer100W = ptr(b.Fillers.Per100W)
			snap.HedgesPer100W = ptr(b.Hedges.Per100W)
			snap.ResultStrength = ptr(b.Result.Score)
			snap.StarCoverage = ptr(float64(b.Star.Coverage))
			if duration != nil && *duration > 0 {
				minutes := math.Max(0.001, *duration/60)
				snap.WPM = ptr(float64(b.WordCount) / minutes)
			}
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

// Summarize compares the current attempt against the snapshot list
// (newest first) and reports totals, per-metric deltas, and flags that
// persisted across consecutive attempts.
func Summarize(snapshots []Snapshot, cur Current) domain.HistorySummary {
	summary := domain.HistorySummary{
		AttemptCount:    len(snapshots),
		MetricDeltas:    map[string]*float64{},
		PersistingFlags: []string{},
		LastMetrics:     Snapshot{},
	}
	if len(snapshots) == 0 {
		return summary
	}

	last := snapshots[0]
	summary.LastMetrics = last
	summary.LastTotal = last.Total

	var totals []float64
	for _, s := range snapshots {
		if s.Total != nil {
			totals = append(totals, *s.Total)
		}
	}
	if len(totals) > 0 {
		best, sum := totals[0], 0.0
		for _, t := range totals {
			if t > best {
				best = t
			}
			sum += t
		}
		summary.BestTotal = ptr(best)
		summary.AvgTotal = ptr(sum / float64(len(totals)))
	}
	if last.Total != nil {
		summary.DeltaTotal = ptr(round1(cur.Total - *last.Total))
	}

	summary.MetricDeltas["fillers_per_100w"] = delta(ptr(cur.FillersPer100W), last.FillersPer100W)
	summary.MetricDeltas["hedges_per_100w"] = delta(ptr(cur.HedgesPer100W), last.HedgesPer100W)
	summary.MetricDeltas["result_strength"] = delta(ptr(cur.ResultStrength), last.ResultStrength)
	summary.MetricDeltas["star_coverage"] = delta(ptr(cur.StarCoverage), last.StarCoverage)
	summary.MetricDeltas["wpm"] = delta(cur.WPM, last.WPM)

	if last.ResultStrength != nil && cur.ResultStrength < 0.5 && *last.ResultStrength < 0.5 {
		summary.PersistingFlags = append(summary.PersistingFlags, "result_strength")
	}
	if last.FillersPer100W != nil && cur.FillersPer100W > 2.5 && *last.FillersPer100W > 2.5 {
		summary.PersistingFlags = append(summary.PersistingFlags, "fillers")
	}
	if last.StarCoverage != nil && cur.StarCoverage < 3 && *last.StarCoverage < 3 {
		summary.PersistingFlags = append(summary.PersistingFlags, "structure")
	}
	return summary
}

func delta(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return ptr(round2(*cur - *prev))
}

func asMap(v any) map[string]any {
	// explanations are sometimes persisted as a JSON string
	if s, ok := v.(string); ok {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

func safeFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return ptr(t)
	case float32:
		return ptr(float64(t))
	case int:
		return ptr(float64(t))
	case int64:
		return ptr(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return ptr(f)
		}
	case string:
		var n json.Number = json.Number(t)
		if f, err := n.Float64(); err == nil {
			return ptr(f)
		}
	}
	return nil
}

func ptr(f float64) *float64 { return &f }

func round1(f float64) float64 { return math.Round(f*10) / 10 }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
