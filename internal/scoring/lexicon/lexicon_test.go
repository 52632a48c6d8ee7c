package lexicon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-scorer/internal/scoring/lexicon"
)

func TestLexiconCountWordBoundaries(t *testing.T) {
	t.Parallel()
	counts := lexicon.Fillers.Count("I would likely say, um, that it was like the best. Um, yes.")
	byTerm := map[string]int{}
	for _, c := range counts {
		byTerm[c.Term] = c.Count
	}
	// "likely" must not fire the "like" matcher
	assert.Equal(t, 1, byTerm["like"])
	assert.Equal(t, 2, byTerm["um"])
	assert.Equal(t, 3, lexicon.Total(counts))
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	toks := lexicon.Tokenize("Don't stop-gap the API, it's 42% done.")
	assert.Contains(t, toks, "don't")
	assert.Contains(t, toks, "stop-gap")
	assert.Contains(t, toks, "api")
	assert.Contains(t, toks, "42")
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()
	sents := lexicon.SplitSentences("First one. Second one! Third? Trailing without period")
	require.Len(t, sents, 4)
	assert.Equal(t, "First one.", sents[0])
	assert.Equal(t, "Trailing without period", sents[3])

	// a period not followed by whitespace does not split
	sents = lexicon.SplitSentences("Latency hit 4.5 seconds. Then it recovered.")
	require.Len(t, sents, 2)

	assert.Nil(t, lexicon.SplitSentences("   "))
}

func TestFindNumbers(t *testing.T) {
	t.Parallel()
	nums := lexicon.FindNumbers("Revenue grew 42% to $1,200 in 3.5 weeks, id abc123 ignored.")
	assert.Contains(t, nums, "42%")
	// comma-grouped amounts split at the comma
	assert.Contains(t, nums, "$1")
	assert.Contains(t, nums, "200")
	assert.Contains(t, nums, "3.5")
	// digits embedded in an identifier are not standalone numbers
	assert.NotContains(t, nums, "123")
	assert.True(t, lexicon.HasNumbers("about 7 users"))
	assert.False(t, lexicon.HasNumbers("no digits here"))
}

func TestFindTimeTerms(t *testing.T) {
	t.Parallel()
	terms := lexicon.FindTimeTerms("shipped in two days after three weeks of work")
	assert.Len(t, terms, 2)
}

func TestNormalizeQuestion(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"what is a project you're proud of?",
		lexicon.NormalizeQuestion("  What is a project you’re proud of?  "))
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()
	kw := lexicon.ExtractKeywords("How would you design a scalable chat system for the team?", 4)
	assert.Equal(t, []string{"would", "design", "scalable", "chat"}, kw)
	assert.Empty(t, lexicon.ExtractKeywords("is it in a to", 8))
}

func TestContainsAny(t *testing.T) {
	t.Parallel()
	assert.True(t, lexicon.ContainsAny("We discussed the TRADE-OFF carefully", []string{"trade-off"}))
	assert.False(t, lexicon.ContainsAny("nothing relevant", []string{"trade-off"}))
}
