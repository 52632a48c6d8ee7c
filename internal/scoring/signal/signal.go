// Package signal computes the deterministic per-transcript measurements the
// composite scorer consumes. Extract is a pure function of the transcript:
// no I/O, no shared state, identical output for identical input.
package signal

import (
	"math"
	"strings"

	"github.com/fairyhunter13/interview-scorer/internal/scoring/lexicon"
)

// RateStat is a phrase-count rate normalized per 100 words.
type RateStat struct {
	Total   int                   `json:"total"`
	Per100W float64               `json:"per_100w"`
	Details []lexicon.PhraseCount `json:"details"`
}

// ActionStat measures action-verb usage over whole tokens.
type ActionStat struct {
	Count    int      `json:"count"`
	Density  float64  `json:"density"`
	Examples []string `json:"examples"`
}

// OwnershipStat is the i/we pronoun balance. IRatio defaults to 0.5 when
// neither pronoun occurs.
type OwnershipStat struct {
	I      int     `json:"i"`
	We     int     `json:"we"`
	IRatio float64 `json:"i_ratio"`
}

// Quantification captures numeric and time-unit evidence.
type Quantification struct {
	Numbers    []string `json:"numbers"`
	HasNumbers bool     `json:"has_numbers"`
	TimeTerms  []string `json:"time_terms"`
}

// SentenceStat holds the trimmed sentence list and average token length.
type SentenceStat struct {
	AvgLen    float64  `json:"avg_len"`
	Sentences []string `json:"sentences"`
}

// StarStat tags Situation/Task/Action/Result presence. The R tag comes from
// the result-strength gate (score >= 0.35), not plain cue presence.
// CueCoverage counts only the cue-driven S/T/A tags and is what rubric
// metric specs observe.
type StarStat struct {
	Tags        map[string]bool `json:"tags"`
	Coverage    int             `json:"coverage"`
	CueCoverage int             `json:"-"`
}

// SequenceStat locates the earliest cue occurrence per STAR category,
// normalized by text length. Ordered is true when the observed offsets
// strictly increase S->T->A->R.
type SequenceStat struct {
	Positions map[string]*float64 `json:"positions"`
	Observed  int                 `json:"observed"`
	Ordered   bool                `json:"ordered"`
}

// ResultStat is the 0..1 result-strength confidence with its parts.
type ResultStat struct {
	Score      float64               `json:"score"`
	CueHits    []lexicon.PhraseCount `json:"cue_hits"`
	HasNumbers bool                  `json:"has_numbers"`
	EndHits    int                   `json:"end_hits"`
}

// VagueStat is the 0..0.6 vagueness penalty.
type VagueStat struct {
	Penalty float64               `json:"penalty"`
	Hits    []lexicon.PhraseCount `json:"hits"`
}

// ReflectionStat marks takeaway language.
type ReflectionStat struct {
	Present bool     `json:"has_reflection"`
	Phrases []string `json:"phrases"`
	Total   int      `json:"total"`
}

// LexicalStat measures vocabulary spread.
type LexicalStat struct {
	Diversity float64 `json:"diversity"`
	LongRatio float64 `json:"long_ratio"`
	Unique    int     `json:"unique"`
}

// Bundle is the full signal set for one transcript.
type Bundle struct {
	WordCount  int
	Fillers    RateStat
	Hedges     RateStat
	Actions    ActionStat
	Ownership  OwnershipStat
	Quant      Quantification
	Sentences  SentenceStat
	Star       StarStat
	Sequence   SequenceStat
	Result     ResultStat
	Vagueness  VagueStat
	Reflection ReflectionStat
	Lexical    LexicalStat
}

// Extract computes every signal for the transcript. Rates divide by
// max(1, word count) so an empty transcript still yields finite values.
func Extract(transcript string) Bundle {
	tokens := lexicon.Tokenize(transcript)
	words := len(tokens)

	b := Bundle{WordCount: words}
	b.Fillers = rateStat(lexicon.Fillers.Count(transcript), words)
	b.Hedges = rateStat(lexicon.Hedges.Count(transcript), words)
	b.Actions = actionStat(tokens)
	b.Ownership = ownershipStat(tokens)
	b.Quant = Quantification{
		Numbers:    cap20(lexicon.FindNumbers(transcript)),
		HasNumbers: lexicon.HasNumbers(transcript),
		TimeTerms:  cap20(lexicon.FindTimeTerms(transcript)),
	}
	b.Sentences = sentenceStat(transcript)
	b.Result = resultStrength(transcript)
	b.Vagueness = vagueStat(transcript)
	b.Reflection = reflectionStat(transcript)
	b.Lexical = lexicalStat(tokens)
	b.Star = starStat(transcript, b.Result.Score)
	b.Sequence = sequenceSignal(transcript)
	return b
}

func rateStat(counts []lexicon.PhraseCount, words int) RateStat {
	total := lexicon.Total(counts)
	return RateStat{
		Total:   total,
		Per100W: float64(total) / float64(maxInt(1, words)) * 100,
		Details: counts,
	}
}

func actionStat(tokens []string) ActionStat {
	verbs := map[string]struct{}{}
	for _, v := range lexicon.ActionVerbs {
		verbs[v] = struct{}{}
	}
	var found []string
	for _, tok := range tokens {
		if _, ok := verbs[tok]; ok {
			found = append(found, tok)
		}
	}
	examples := found
	if len(examples) > 10 {
		examples = examples[:10]
	}
	return ActionStat{
		Count:    len(found),
		Density:  float64(len(found)) / float64(maxInt(1, len(tokens))),
		Examples: examples,
	}
}

func ownershipStat(tokens []string) OwnershipStat {
	var i, we int
	for _, tok := range tokens {
		switch tok {
		case "i":
			i++
		case "we":
			we++
		}
	}
	ratio := 0.5
	if i+we > 0 {
		ratio = float64(i) / float64(i+we)
	}
	return OwnershipStat{I: i, We: we, IRatio: ratio}
}

func sentenceStat(transcript string) SentenceStat {
	var sents []string
	for _, s := range lexicon.SplitSentences(transcript) {
		if t := strings.TrimSpace(s); t != "" {
			sents = append(sents, t)
		}
	}
	if len(sents) == 0 {
		return SentenceStat{}
	}
	sum := 0
	for _, s := range sents {
		sum += len(lexicon.Tokenize(s))
	}
	kept := sents
	if len(kept) > 40 {
		kept = kept[:40]
	}
	return SentenceStat{AvgLen: float64(sum) / float64(len(sents)), Sentences: kept}
}

func starStat(transcript string, resultScore float64) StarStat {
	tags := map[string]bool{
		"s": lexicon.ContainsAny(transcript, lexicon.SituationCues),
		"t": lexicon.ContainsAny(transcript, lexicon.TaskCues),
		"a": lexicon.ContainsAny(transcript, lexicon.ActionCues),
	}
	cue := 0
	for _, v := range tags {
		if v {
			cue++
		}
	}
	tags["r"] = resultScore >= 0.35
	coverage := cue
	if tags["r"] {
		coverage++
	}
	return StarStat{Tags: tags, Coverage: coverage, CueCoverage: cue}
}

// resultStrength combines cue density, numeric evidence, and outcome verbs
// concentrated in the final 30% of sentences, capped at 1.0.
func resultStrength(transcript string) ResultStat {
	sents := lexicon.SplitSentences(transcript)
	n := maxInt(1, len(sents))
	endIdx := int(math.Ceil(float64(n) * 0.7))
	if endIdx > len(sents) {
		endIdx = len(sents)
	}

	cueHits := lexicon.ResultCues.Count(transcript)
	cueScore := math.Min(1.0, float64(lexicon.Total(cueHits))*0.25)

	hasNum := lexicon.HasNumbers(transcript)
	numScore := 0.0
	if hasNum {
		numScore = 0.35
	}

	endText := strings.ToLower(strings.Join(sents[endIdx:], " "))
	endHits := 0
	for _, c := range lexicon.EndRegionCues {
		if strings.Contains(endText, c) {
			endHits++
		}
	}
	endScore := math.Min(0.4, float64(endHits)*0.2)

	return ResultStat{
		Score:      math.Min(1.0, cueScore+numScore+endScore),
		CueHits:    cueHits,
		HasNumbers: hasNum,
		EndHits:    endHits,
	}
}

func vagueStat(transcript string) VagueStat {
	hits := lexicon.VaguePhrases.Count(transcript)
	return VagueStat{
		Penalty: math.Min(0.6, float64(lexicon.Total(hits))*0.2),
		Hits:    hits,
	}
}

func reflectionStat(transcript string) ReflectionStat {
	matches := lexicon.ReflectionCues.Count(transcript)
	var phrases []string
	for _, m := range matches {
		phrases = append(phrases, m.Term)
		if len(phrases) == 3 {
			break
		}
	}
	return ReflectionStat{
		Present: len(matches) > 0,
		Phrases: phrases,
		Total:   lexicon.Total(matches),
	}
}

func lexicalStat(tokens []string) LexicalStat {
	if len(tokens) == 0 {
		return LexicalStat{}
	}
	uniq := map[string]struct{}{}
	long := 0
	for _, tok := range tokens {
		uniq[tok] = struct{}{}
		if len(tok) >= 7 {
			long++
		}
	}
	return LexicalStat{
		Diversity: float64(len(uniq)) / float64(len(tokens)),
		LongRatio: float64(long) / float64(len(tokens)),
		Unique:    len(uniq),
	}
}

func sequenceSignal(transcript string) SequenceStat {
	tl := strings.ToLower(strings.TrimSpace(transcript))
	length := float64(maxInt(1, len(tl)))
	groups := []struct {
		label string
		cues  []string
	}{
		{"s", lexicon.SituationCues},
		{"t", lexicon.TaskCues},
		{"a", lexicon.ActionCues},
		{"r", lexicon.ResultCues.Terms()},
	}
	positions := map[string]*float64{}
	for _, g := range groups {
		earliest := -1
		for _, c := range g.cues {
			if idx := strings.Index(tl, c); idx >= 0 && (earliest < 0 || idx < earliest) {
				earliest = idx
			}
		}
		if earliest >= 0 {
			p := float64(earliest) / length
			positions[g.label] = &p
		} else {
			positions[g.label] = nil
		}
	}
	var observedVals []float64
	observed := 0
	for _, label := range []string{"s", "t", "a", "r"} {
		if p := positions[label]; p != nil {
			observed++
			observedVals = append(observedVals, *p)
		}
	}
	ordered := true
	for i := 1; i < len(observedVals); i++ {
		if observedVals[i] <= observedVals[i-1] {
			ordered = false
			break
		}
	}
	return SequenceStat{Positions: positions, Observed: observed, Ordered: ordered}
}

func cap20(s []string) []string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
