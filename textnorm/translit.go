package textnorm

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transliterator IDs understood by Converter.
const (
	AnyLatinASCII = "Any-Latin; Latin-ASCII"
	LatinKatakana = "Latin-Katakana"
)

// Transliterator converts text between scripts. ok is false when the
// transform id is not supported, in which case callers fall back to their
// own tables.
type Transliterator interface {
	Transliterate(id, input string) (out string, ok bool)
}

// Builtin returns the transliterator used by Default. It folds any script to
// ASCII with unidecode and does not implement Latin-Katakana.
func Builtin() Transliterator {
	return builtinTransliterator{}
}

type builtinTransliterator struct{}

func (builtinTransliterator) Transliterate(id, input string) (string, bool) {
	if id != AnyLatinASCII {
		return "", false
	}
	if input == "" {
		return "", true
	}
	if out := unidecode.Unidecode(input); out != "" {
		return out, true
	}
	return stripMarks(input), true
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Converter derives script forms through a pluggable Transliterator.
type Converter struct {
	tr Transliterator
}

// NewConverter returns a Converter backed by tr. A nil tr behaves like a
// transliterator that supports nothing.
func NewConverter(tr Transliterator) *Converter {
	return &Converter{tr: tr}
}

// Default uses the Builtin transliterator.
var Default = NewConverter(Builtin())

func (c *Converter) transliterate(id, input string) string {
	if input == "" {
		return ""
	}
	if c == nil || c.tr == nil {
		return input
	}
	out, ok := c.tr.Transliterate(id, input)
	if !ok {
		return input
	}
	return out
}

// ToLatinASCII renders s in Latin/ASCII and keeps only letters, digits,
// whitespace, '.', '_' and '-'.
func (c *Converter) ToLatinASCII(s string) string {
	r := c.transliterate(AnyLatinASCII, s)
	if r == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		switch r {
		case '.', '_', '-':
			return r
		}
		return -1
	}, r)
}

// RomajiToKatakana asks the transliterator first and falls back to the
// built-in romaji tables when it is unavailable or returns s unchanged.
func (c *Converter) RomajiToKatakana(s string) string {
	if r := c.transliterate(LatinKatakana, s); r != "" && r != s {
		return r
	}
	return romajiToKatakanaTable(s)
}

// ToLatinASCII calls Default.ToLatinASCII.
func ToLatinASCII(s string) string { return Default.ToLatinASCII(s) }

// RomajiToKatakana calls Default.RomajiToKatakana.
func RomajiToKatakana(s string) string { return Default.RomajiToKatakana(s) }
