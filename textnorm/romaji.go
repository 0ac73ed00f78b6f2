package textnorm

import "strings"

var romaji3 = map[string]string{
	"kya": "キャ", "kyu": "キュ", "kyo": "キョ",
	"sha": "シャ", "shu": "シュ", "sho": "ショ", "she": "シェ", "shi": "シ",
	"sya": "シャ", "syu": "シュ", "syo": "ショ",
	"cha": "チャ", "chu": "チュ", "cho": "チョ", "che": "チェ", "chi": "チ",
	"tya": "チャ", "tyu": "チュ", "tyo": "チョ",
	"tsu": "ツ",
	"nya": "ニャ", "nyu": "ニュ", "nyo": "ニョ",
	"hya": "ヒャ", "hyu": "ヒュ", "hyo": "ヒョ",
	"mya": "ミャ", "myu": "ミュ", "myo": "ミョ",
	"rya": "リャ", "ryu": "リュ", "ryo": "リョ",
	"gya": "ギャ", "gyu": "ギュ", "gyo": "ギョ",
	"jya": "ジャ", "jyu": "ジュ", "jyo": "ジョ",
	"zya": "ジャ", "zyu": "ジュ", "zyo": "ジョ",
	"dya": "ヂャ", "dyu": "ヂュ", "dyo": "ヂョ",
	"bya": "ビャ", "byu": "ビュ", "byo": "ビョ",
	"pya": "ピャ", "pyu": "ピュ", "pyo": "ピョ",
}

var romaji2 = map[string]string{
	"ka": "カ", "ki": "キ", "ku": "ク", "ke": "ケ", "ko": "コ",
	"sa": "サ", "si": "シ", "su": "ス", "se": "セ", "so": "ソ",
	"ta": "タ", "ti": "チ", "tu": "ツ", "te": "テ", "to": "ト",
	"na": "ナ", "ni": "ニ", "nu": "ヌ", "ne": "ネ", "no": "ノ",
	"ha": "ハ", "hi": "ヒ", "hu": "フ", "fu": "フ", "he": "ヘ", "ho": "ホ",
	"fa": "ファ", "fi": "フィ", "fe": "フェ", "fo": "フォ",
	"ma": "マ", "mi": "ミ", "mu": "ム", "me": "メ", "mo": "モ",
	"ya": "ヤ", "yu": "ユ", "yo": "ヨ",
	"ra": "ラ", "ri": "リ", "ru": "ル", "re": "レ", "ro": "ロ",
	"wa": "ワ", "wo": "ヲ",
	"ga": "ガ", "gi": "ギ", "gu": "グ", "ge": "ゲ", "go": "ゴ",
	"za": "ザ", "zi": "ジ", "ji": "ジ", "zu": "ズ", "ze": "ゼ", "zo": "ゾ",
	"ja": "ジャ", "ju": "ジュ", "je": "ジェ", "jo": "ジョ",
	"da": "ダ", "di": "ヂ", "du": "ヅ", "de": "デ", "do": "ド",
	"ba": "バ", "bi": "ビ", "bu": "ブ", "be": "ベ", "bo": "ボ",
	"pa": "パ", "pi": "ピ", "pu": "プ", "pe": "ペ", "po": "ポ",
	"nn": "ン",
}

var romaji1 = map[byte]string{
	'a': "ア",
	'i': "イ",
	'u': "ウ",
	'e': "エ",
	'o': "オ",
	'n': "ン",
}

// romajiToKatakanaTable converts Hepburn-ish romaji with greedy longest
// match. Letters that start no known syllable are dropped.
func romajiToKatakanaTable(s string) string {
	t := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, Normalize(s))
	if t == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(t) * 3)
	for i := 0; i < len(t); {
		if i+1 < len(t) && isConsonant(t[i]) && t[i] != 'n' &&
			(t[i] == t[i+1] || (t[i] == 't' && strings.HasPrefix(t[i+1:], "ch"))) {
			b.WriteString("ッ")
			i++
			continue
		}
		if i+3 <= len(t) {
			if k, ok := romaji3[t[i:i+3]]; ok {
				b.WriteString(k)
				i += 3
				continue
			}
		}
		if i+2 <= len(t) {
			if k, ok := romaji2[t[i:i+2]]; ok {
				b.WriteString(k)
				i += 2
				continue
			}
		}
		if k, ok := romaji1[t[i]]; ok {
			b.WriteString(k)
		}
		i++
	}
	return b.String()
}

func isConsonant(c byte) bool {
	if c < 'a' || c > 'z' {
		return false
	}
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return true
}
