// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
)

// SanitizeTranscript removes control characters except tab/newline/CR,
// normalizes curly apostrophes to ASCII, and trims surrounding space.
// Speech-to-text output occasionally carries both.
func SanitizeTranscript(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '’' || r == '‘':
			b.WriteRune('\'')
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case r >= 32 && r != 127:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// FoldSpace collapses runs of whitespace into single spaces.
func FoldSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
