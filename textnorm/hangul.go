package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	hangulBase       = 0xAC00
	hangulLast       = 0xD7A3
	syllablesPerLead = 588
)

var choseong = [19]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

func isHangulSyllable(r rune) bool {
	return r >= hangulBase && r <= hangulLast
}

func isCompatChoseong(r rune) bool {
	return r >= 0x3131 && r <= 0x314E
}

func isJamo(r rune) bool {
	return (r >= 0x1100 && r <= 0x11FF) || (r >= 0x3130 && r <= 0x318F)
}

func leadingConsonant(syllable rune) rune {
	idx := int(syllable-hangulBase) / syllablesPerLead
	if idx < 0 || idx >= len(choseong) {
		return syllable
	}
	return choseong[idx]
}

// ExtractChoseong replaces Hangul syllables with their leading consonant,
// lowercases other letters and digits, and drops everything else.
func ExtractChoseong(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isHangulSyllable(r):
			b.WriteRune(leadingConsonant(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ToChoseongQuery returns the consonant skeleton of q, or "" unless every
// rune is a Hangul syllable or an already-compatibility choseong.
func ToChoseongQuery(q string) string {
	if q == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		switch {
		case isCompatChoseong(r):
			b.WriteRune(r)
		case isHangulSyllable(r):
			b.WriteRune(leadingConsonant(r))
		default:
			return ""
		}
	}
	return b.String()
}

// DecomposeHangulToJamo splits syllables into conjoining jamo via NFD and
// keeps only jamo, letters, digits and spaces.
func DecomposeHangulToJamo(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if isJamo(r) || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Zs, r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}
