package rerank

import (
	"strings"
	"unicode/utf8"

	"yashubustudio/launchersearch/lexical"
)

// SemanticWeight grows with the trimmed query length: very short queries are
// mostly typed prefixes and keep the lexical order.
func SemanticWeight(query string) float32 {
	n := utf8.RuneCountInString(strings.TrimSpace(query))
	switch {
	case n <= 2:
		return 0.10
	case n <= 4:
		return 0.20
	}
	return 0.35
}

// Fuse blends a lexical score with a cosine similarity. The result is in
// [0, 1].
func Fuse(lexicalScore int, cosine, semanticWeight float32) float32 {
	lexNorm := clamp01(float32(lexicalScore) / float32(lexical.MaxScore))
	semNorm := clamp01((cosine + 1) / 2)
	w := clamp01(semanticWeight)
	return (1-w)*lexNorm + w*semNorm
}
