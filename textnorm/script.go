package textnorm

import "unicode"

const dominantPercent = 70

// IsMostlyLatin reports whether at least 70% of the letters in s are ASCII
// Latin letters.
func IsMostlyLatin(s string) bool {
	return letterShare(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
}

// IsLikelyKana reports whether at least 70% of the letters in s are
// hiragana or katakana.
func IsLikelyKana(s string) bool {
	return letterShare(s, func(r rune) bool {
		return isHiragana(r) || isKatakana(r)
	})
}

func letterShare(s string, match func(rune) bool) bool {
	var hits, letters int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if match(r) {
			hits++
		}
	}
	return letters > 0 && hits*100/letters >= dominantPercent
}
