package lexical

import "yashubustudio/launchersearch/textnorm"

// Forms holds the normalized renderings of one candidate. Every field is
// either empty or already passed through textnorm.Normalize.
type Forms struct {
	TitleNorm      string
	TitleHiragana  string
	TitleKatakana  string
	TitleKanaLoose string
	TitleLatin     string
	TitleChoseong  string
	TitleJamo      string
	PkgNorm        string
}

// BuildForms derives the title renderings and the normalized package name.
func BuildForms(title, pkg string) Forms {
	return Forms{
		TitleNorm:      textnorm.Normalize(title),
		TitleHiragana:  textnorm.Normalize(textnorm.ToHiragana(title)),
		TitleKatakana:  textnorm.Normalize(textnorm.ToKatakana(title)),
		TitleKanaLoose: textnorm.Normalize(textnorm.KanaLoose(title)),
		TitleLatin:     textnorm.Normalize(textnorm.ToLatinASCII(title)),
		TitleChoseong:  textnorm.Normalize(textnorm.ExtractChoseong(title)),
		TitleJamo:      textnorm.Normalize(textnorm.DecomposeHangulToJamo(title)),
		PkgNorm:        textnorm.Normalize(pkg),
	}
}

// FormsOf builds the forms of a candidate.
func FormsOf(c Candidate) Forms {
	return BuildForms(c.Title(), c.PackageIdentifier())
}
