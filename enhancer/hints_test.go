package enhancer

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionHintsPut(t *testing.T) {
	var h ConversionHints
	assert.True(t, h.Put(" FaceBook ", []string{"Facebook", "", "フェイスブック", "  "}))

	got, ok := h.Take("facebook")
	require.True(t, ok)
	assert.Equal(t, []string{"フェイスブック"}, got)

	_, ok = h.Take("facebook")
	assert.False(t, ok, "hints are consumed once")

	assert.False(t, h.Put("", []string{"x"}))
	assert.False(t, h.Put("q", nil))
	assert.False(t, h.Put("q", []string{"Q", " "}))
	_, ok = h.Take("q")
	assert.False(t, ok)
}

func TestConversionHintsTakeOnce(t *testing.T) {
	var h ConversionHints
	h.Put("kakao", []string{"카카오"})

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := h.Take("kakao"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
