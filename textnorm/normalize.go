// Package textnorm canonicalizes launcher text and derives the script forms
// (kana, Latin, Hangul) used for cross-script matching.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC, locale-invariant lowercasing and trims the edges.
// The result is stable under repeated application.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	normed := norm.NFKC.String(s)
	// Caser carries state, so a fresh one per call keeps Normalize safe for
	// concurrent use.
	normed = cases.Lower(language.Und).String(normed)
	normed = norm.NFKC.String(normed)
	return strings.TrimSpace(normed)
}

// NormalizeAll normalizes every element of texts into a new slice.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t)
	}
	return out
}
