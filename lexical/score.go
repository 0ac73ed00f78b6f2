package lexical

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tier is the score awarded per match kind for one field.
type Tier struct {
	Exact      int
	Prefix     int
	WordPrefix int
	Contains   int
}

// Title field tiers.
var (
	TitleTier     = Tier{Exact: 1300, Prefix: 1120, WordPrefix: 980, Contains: 760}
	KanaTier      = Tier{Exact: 1240, Prefix: 1080, WordPrefix: 960, Contains: 780}
	KanaLooseTier = Tier{Exact: 1200, Prefix: 1040, WordPrefix: 930, Contains: 780}
	LatinTier     = Tier{Exact: 1020, Prefix: 940, WordPrefix: 860, Contains: 690}
	ChoseongTier  = Tier{Exact: 1080, Prefix: 960, WordPrefix: 880, Contains: 740}
	JamoTier      = Tier{Exact: 980, Prefix: 900, WordPrefix: 830, Contains: 700}
)

// Package token scores.
const (
	PackageExact    = 620
	PackagePrefix   = 490
	PackageContains = 330
)

// MaxScore is the highest score any single field can award.
const MaxScore = 1300

var packageStopwords = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "android": {}, "launcher": {},
	"mobile": {}, "app": {}, "apps": {}, "service": {}, "services": {},
	"client": {}, "global": {}, "prod": {}, "release": {}, "debug": {},
}

// ScoreBasic grades target against q: exact, then prefix, then a prefix of
// one of target's words, then a substring of at least two runes.
func ScoreBasic(q, target string, t Tier) int {
	switch {
	case target == "":
		return 0
	case target == q:
		return t.Exact
	case strings.HasPrefix(target, q):
		return t.Prefix
	case matchesWordPrefix(q, target):
		return t.WordPrefix
	case utf8.RuneCountInString(q) >= 2 && strings.Contains(target, q):
		return t.Contains
	}
	return 0
}

func isWordSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '-', '_', '.', '(', ')', '[', ']', '/', '・':
		return true
	}
	return false
}

func matchesWordPrefix(q, text string) bool {
	for _, w := range strings.FieldsFunc(text, isWordSeparator) {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}

func isPackageSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-'
}

// ScorePackage grades q against the tokens of a normalized package name,
// ignoring one-rune tokens and common boilerplate segments.
func ScorePackage(q, pkgNorm string) int {
	qLen := utf8.RuneCountInString(q)
	if pkgNorm == "" || qLen < 2 {
		return 0
	}
	best := 0
	for _, tok := range strings.FieldsFunc(pkgNorm, isPackageSeparator) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, stop := packageStopwords[tok]; stop {
			continue
		}
		switch {
		case tok == q:
			best = max(best, PackageExact)
		case strings.HasPrefix(tok, q):
			best = max(best, PackagePrefix)
		case qLen >= 3 && strings.Contains(tok, q):
			best = max(best, PackageContains)
		}
	}
	return best
}

// ScoreWithForms is the best score of q over every field of f.
func ScoreWithForms(q string, f Forms) int {
	if q == "" {
		return 0
	}
	best := ScoreBasic(q, f.TitleNorm, TitleTier)
	best = max(best, ScoreBasic(q, f.TitleHiragana, KanaTier))
	best = max(best, ScoreBasic(q, f.TitleKatakana, KanaTier))
	best = max(best, ScoreBasic(q, f.TitleKanaLoose, KanaLooseTier))
	best = max(best, ScoreBasic(q, f.TitleLatin, LatinTier))
	best = max(best, ScoreBasic(q, f.TitleChoseong, ChoseongTier))
	best = max(best, ScoreBasic(q, f.TitleJamo, JamoTier))
	return max(best, ScorePackage(q, f.PkgNorm))
}

// ScoreVariants is the best ScoreWithForms over all variants.
func ScoreVariants(variants *VariantSet, f Forms) int {
	if variants == nil {
		return 0
	}
	best := 0
	for _, q := range variants.order {
		if s := ScoreWithForms(q, f); s > best {
			best = s
		}
	}
	return best
}
