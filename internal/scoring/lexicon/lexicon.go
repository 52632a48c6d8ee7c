// Package lexicon holds the static phrase sets and text primitives the
// scoring engine is built on. Everything here is immutable after package
// init, so concurrent scoring calls share it freely.
package lexicon

import (
	"regexp"
	"strings"
)

// Fillers are verbal tics counted against clarity and delivery.
var Fillers = New(
	"um", "uh", "er", "ah", "like", "you know", "kind of", "kinda",
	"sort of", "actually", "basically", "literally", "so yeah", "i mean",
)

// Hedges soften claims and count against delivery confidence.
var Hedges = New(
	"maybe", "perhaps", "probably", "possibly", "i think", "i guess",
	"i believe", "i feel like", "sort of", "kind of", "somewhat", "a bit",
	"might", "could", "not sure", "to be honest", "i suppose",
)

// ActionVerbs signal concrete personal contribution. Matched on whole
// tokens, not substrings.
var ActionVerbs = []string{
	"built", "implemented", "designed", "led", "drove", "optimized", "reduced",
	"increased", "launched", "migrated", "refactored", "debugged", "delivered",
	"automated", "integrated", "owned", "shipped", "deployed", "scaled", "mentored",
	"verified", "configured", "reconfigured", "reproduced", "benchmarked", "profiled",
	"triaged", "isolated", "documented",
}

// ResultCues mark outcome statements.
var ResultCues = New(
	"as a result", "resulted in", "so that", "thereby", "which led to",
	"leading to", "therefore", "ultimately", "in the end", "the outcome",
	"this helped", "this enabled", "we were able to", "users could", "the system could",
	"confirmed on the", "successfully", "we succeeded", "we achieved", "earned recognition",
	"unblocked", "fixed the issue", "resolved the issue", "passed tests", "met the goal", "met our goal",
)

// SituationCues, TaskCues, ActionCues anchor the STAR structure detector.
// Cue phrases are matched by substring containment so they may span word
// boundaries.
var (
	SituationCues = []string{
		"at my internship", "at school", "on a project", "the situation", "the context",
		"when i", "while i", "our team was", "we were", "the problem was", "we faced", "one challenge",
	}
	TaskCues = []string{
		"my task", "i needed to", "i had to", "i was responsible for", "the goal was",
		"the objective was", "we needed to", "we had to",
	}
	ActionCues = []string{
		"so i", "i decided to", "i started by", "i then", "i worked on", "i implemented",
		"we implemented", "i built", "we built", "i designed", "we designed", "i verified", "i debugged",
	}
)

// ReflectionCues mark takeaway or learning language.
var ReflectionCues = New(
	"i learned", "i realised", "i realized", "what i learned", "this taught me",
	"i would", "next time", "going forward", "i now", "i took away", "i discovered",
	"i will", "we learned", "lesson", "key takeaway",
)

// VaguePhrases are hand-wavy fillers that dilute technical content.
var VaguePhrases = New(
	"some things", "stuff", "things", "technical issues", "it started working",
	"figured it out", "googling", "okay in the end", "tough but managed",
	"sort of worked", "kind of worked", "did some research", "did research",
)

// EndRegionCues are outcome verbs counted only in the final portion of the
// answer by the result-strength scorer.
var EndRegionCues = []string{
	"users could", "successfully", "enabled", "reduced", "increased",
	"confirmed", "recognized", "passed", "fixed", "resolved", "unblocked", "achieved",
}

// Domain term sets used by rubric metrics and mode templates.
var (
	RequirementsTerms = []string{"requirement", "constraint", "goal", "scope", "assumption", "require", "must"}
	TradeoffTerms     = []string{"trade-off", "tradeoff", "cost", "latency", "throughput", "consistency", "availability"}
	ReliabilityTerms  = []string{"retry", "timeout", "failover", "monitoring", "alert", "observability", "resilient", "fallback"}
	EdgeTerms         = []string{"edge case", "failure", "error", "bug", "exception", "rollback"}
	ComplexityTerms   = []string{"big o", "complexity", "runtime", "memory", "space", "efficient", "performance"}
	ScalingTerms      = []string{"scale", "shard", "partition", "load", "cache", "queue", "cdn", "replica"}
	DataTerms         = []string{"schema", "table", "index", "data model", "storage", "database"}
	APITerms          = []string{"api", "endpoint", "request", "response", "contract", "versioning"}
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "this", "that", "these", "those",
		"to", "of", "in", "on", "for", "with", "by", "from", "about", "as", "at", "into",
		"is", "are", "was", "were", "be", "been", "being", "it", "its", "i", "we", "you",
		"my", "our", "your", "they", "their", "them", "he", "she", "his", "her",
		"how", "what", "why", "when", "where", "who", "which",
	} {
		stopwords[w] = struct{}{}
	}
}

var (
	wordRe   = regexp.MustCompile(`\b[\w'-]+\b`)
	numberRe = regexp.MustCompile(`\$?\d+(?:\.\d+)?%?|\d{1,3}(?:,\d{3})+%?`)
	timeRe   = regexp.MustCompile(`(?i)\b(days?|weeks?|months?|quarters?|years?)\b`)
)

// PhraseCount is one matched phrase with its occurrence count.
type PhraseCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Lexicon is an immutable ordered phrase list with precompiled
// word-boundary matchers.
type Lexicon struct {
	terms    []string
	patterns []*regexp.Regexp
}

// New builds a Lexicon. Phrase order is preserved; matches are
// word-boundary-delimited so "like" never fires inside "likely".
func New(terms ...string) *Lexicon {
	l := &Lexicon{terms: terms, patterns: make([]*regexp.Regexp, len(terms))}
	for i, t := range terms {
		l.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return l
}

// Terms returns the phrase list. Callers must not mutate it.
func (l *Lexicon) Terms() []string { return l.terms }

// Count returns non-overlapping occurrence counts per phrase, skipping
// phrases with zero hits, in lexicon order.
func (l *Lexicon) Count(text string) []PhraseCount {
	t := " " + strings.TrimSpace(strings.ToLower(text)) + " "
	var out []PhraseCount
	for i, term := range l.terms {
		if n := len(l.patterns[i].FindAllStringIndex(t, -1)); n > 0 {
			out = append(out, PhraseCount{Term: term, Count: n})
		}
	}
	return out
}

// Total sums phrase counts.
func Total(counts []PhraseCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}

// Tokenize extracts case-folded word tokens (apostrophes and hyphens kept).
func Tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// SplitSentences splits on whitespace following sentence punctuation.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && isSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			i++
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			start = i
			i--
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// FindNumbers returns currency/percentage/decimal/comma-grouped number
// literals that stand alone (not embedded in a longer word).
func FindNumbers(text string) []string {
	var out []string
	for _, loc := range numberRe.FindAllStringIndex(text, -1) {
		if boundedAt(text, loc[0], loc[1]) {
			out = append(out, text[loc[0]:loc[1]])
		}
	}
	return out
}

// HasNumbers reports whether any standalone number literal occurs.
func HasNumbers(text string) bool {
	for _, loc := range numberRe.FindAllStringIndex(text, -1) {
		if boundedAt(text, loc[0], loc[1]) {
			return true
		}
	}
	return false
}

// boundedAt checks the characters flanking [start,end) are not word
// characters, mirroring lookaround-delimited number matching.
func boundedAt(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FindTimeTerms returns explicit duration words (days, weeks, ...).
func FindTimeTerms(text string) []string {
	return timeRe.FindAllString(text, -1)
}

// ContainsAny reports whether any term occurs as a substring of the
// lowercased text.
func ContainsAny(text string, terms []string) bool {
	t := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}

// NormalizeQuestion canonicalizes prompt text for catalog lookup.
func NormalizeQuestion(text string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "’", "'")))
}

// ExtractKeywords pulls up to limit non-stopword tokens (length > 2) from a
// prompt, preserving first-seen order.
func ExtractKeywords(text string, limit int) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, tok := range Tokenize(text) {
		if len(tok) <= 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// IsStopword reports membership in the prompt stopword set.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}
