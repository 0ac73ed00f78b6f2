package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"ascii", "  Facebook ", "facebook"},
		{"fullwidth", "ＦＡＣＥＢＯＯＫ", "facebook"},
		{"halfwidth katakana", "ｶﾒﾗ", "カメラ"},
		{"turkish dotted I stays invariant", "I", "i"},
		{"hangul kept", " 카카오톡 ", "카카오톡"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "Ａｐｐ Store", "ふぇいすぶっく", "ＫａｋａｏＴａｌｋ", "㈱カメラ", "ǅemal", "ΣΑΣ", " mixed　",
		"김밥", "ㄱㄴ", "Café au lait", "ﬁle",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeAll(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, NormalizeAll([]string{" A", "B ", ""}))
}

func TestKanaConversions(t *testing.T) {
	assert.Equal(t, "ふぇいすぶっく", ToHiragana("フェイスブック"))
	assert.Equal(t, "フェイスブック", ToKatakana("ふぇいすぶっく"))
	assert.Equal(t, "abcカメラ", ToKatakana("abcかめら"))
	assert.Equal(t, "", ToHiragana(""))
	// halfwidth input is composed before shifting
	assert.Equal(t, "かめら", ToHiragana("ｶﾒﾗ"))
}

func TestKanaLoose(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"フェイスブック", "フエイスブツク"},
		{"ふぇいすぶっく", "フエイスブツク"},
		{"コーヒー", "コヒ"},
		{"ヴァン・ゴッホ", "ヴアンゴツホ"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KanaLoose(tt.in), "input %q", tt.in)
	}
}
