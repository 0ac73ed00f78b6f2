package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubTransliterator map[string]string

func (s stubTransliterator) Transliterate(id, input string) (string, bool) {
	out, ok := s[id+"/"+input]
	return out, ok
}

func TestToLatinASCII(t *testing.T) {
	assert.Equal(t, "Cafe", ToLatinASCII("Café!"))
	assert.Equal(t, "com.example_app-1", ToLatinASCII("com.example_app-1"))
	assert.Equal(t, "", ToLatinASCII(""))
	assert.NotEmpty(t, Normalize(ToLatinASCII("김밥")))
}

func TestRomajiToKatakanaTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gimbap", "ギバ"},
		{"kamera", "カメラ"},
		{"kitte", "キッテ"},
		{"matcha", "マッチャ"},
		{"shashin", "シャシン"},
		{"tokyo", "トキョ"},
		{"ramen", "ラメン"},
		{"firefox", "フィレフォ"},
		{"Jazz", "ジャッ"},
		{"123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RomajiToKatakana(tt.in))
		})
	}
}

func TestConverterPrefersTransliterator(t *testing.T) {
	c := NewConverter(stubTransliterator{
		LatinKatakana + "/sushi": "スシ",
		LatinKatakana + "/noop":  "noop",
	})
	assert.Equal(t, "スシ", c.RomajiToKatakana("sushi"))
	// a no-op transliteration falls back to the table
	assert.Equal(t, "ノオ", c.RomajiToKatakana("noop"))
	// unsupported ids leave the input for the Latin filter
	assert.Equal(t, "abc", c.ToLatinASCII("abc!"))
}

func TestNilConverter(t *testing.T) {
	c := NewConverter(nil)
	assert.Equal(t, "kana", c.ToLatinASCII("kana"))
	assert.Equal(t, "カナ", c.RomajiToKatakana("kana"))
}
