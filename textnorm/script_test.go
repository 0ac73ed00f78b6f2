package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMostlyLatin(t *testing.T) {
	assert.True(t, IsMostlyLatin("facebook"))
	assert.True(t, IsMostlyLatin("gimbap 2"))
	assert.False(t, IsMostlyLatin("カメラ"))
	assert.False(t, IsMostlyLatin("123"))
	assert.False(t, IsMostlyLatin(""))
	// 7 of 10 letters are Latin
	assert.True(t, IsMostlyLatin("abcdefgカメラ"))
	assert.False(t, IsMostlyLatin("abcdefカメラア"))
}

func TestIsLikelyKana(t *testing.T) {
	assert.True(t, IsLikelyKana("ふぇいすぶっく"))
	assert.True(t, IsLikelyKana("カメラ a"))
	assert.False(t, IsLikelyKana("camera"))
	assert.False(t, IsLikelyKana("김밥"))
	assert.False(t, IsLikelyKana("!!"))
}
