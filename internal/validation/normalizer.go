// Package validation implements the cross-model transcript validation core:
// text normalization, similarity scoring, pair aggregation and the
// per-directory decision engine.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	htmlTagRe        = regexp.MustCompile(`<.*?>`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
	dotRunRe         = regexp.MustCompile(`\.{2,}`)
	bracketRe        = regexp.MustCompile(`[()\[\]{}]`)
	spaceBeforePunct = regexp.MustCompile(`\s([.,;:?!"](?:\s|$))`)
)

// Punctuation replaced with spaces so glued tokens remain separate words.
const punctuation = "!()-[]{};:'\"\\,<>./?@#$%^&*_~"

// Normalize transforms raw ASR output into the canonical form used for
// similarity scoring: tags stripped, accents removed, lowercased, punctuation
// collapsed away. ok is false when the input, or what remains of it, is
// empty. Normalize is pure and idempotent.
func Normalize(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	text := htmlTagRe.ReplaceAllString(raw, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = stripAccents(text)
	text = strings.ToLower(text)
	text = dotRunRe.ReplaceAllString(text, ".")
	text = bracketRe.ReplaceAllString(text, "")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(punctuation, r) {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	text = whitespaceRe.ReplaceAllString(b.String(), " ")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", false
	}
	return text, true
}

// stripAccents decomposes to NFD and drops combining marks, turning e.g.
// "ção" into "cao". The transform chain is stateful, so a fresh one is built
// per call to keep Normalize safe for concurrent use.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
