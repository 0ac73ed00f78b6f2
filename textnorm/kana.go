package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const kanaOffset = 0x60

// ToHiragana maps katakana in s onto the hiragana block. Other runes are
// left untouched.
func ToHiragana(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - kanaOffset
		}
		return r
	}, norm.NFKC.String(s))
}

// ToKatakana maps hiragana in s onto the katakana block.
func ToKatakana(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r >= 0x3041 && r <= 0x3096 {
			return r + kanaOffset
		}
		return r
	}, norm.NFKC.String(s))
}

var smallKana = map[rune]rune{
	'ァ': 'ア',
	'ィ': 'イ',
	'ゥ': 'ウ',
	'ェ': 'エ',
	'ォ': 'オ',
	'ャ': 'ヤ',
	'ュ': 'ユ',
	'ョ': 'ヨ',
	'ッ': 'ツ',
	'ヮ': 'ワ',
	'ヵ': 'カ',
	'ヶ': 'ケ',
}

// KanaLoose renders s in katakana without long-vowel marks or middle dots and
// with small kana widened, so orthographic variants collapse together.
func KanaLoose(s string) string {
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case 'ー', '・':
			return -1
		}
		if full, ok := smallKana[r]; ok {
			return full
		}
		return r
	}, ToKatakana(s))
}

func isHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

func isKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}
