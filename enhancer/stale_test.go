package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStale(t *testing.T) {
	tests := []struct {
		computed string
		live     string
		want     bool
	}{
		{"camera", "camera", false},
		{"Camera", " camera ", false},
		{"ＣＡＭＥＲＡ", "camera", false},
		{"cam", "camera", true},
		{"camera", "", false},
		{"camera", "   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStale(tt.computed, tt.live), "%q vs %q", tt.computed, tt.live)
	}
}

func TestDeliver(t *testing.T) {
	var got []string
	sink := func(v []string) { got = v }

	assert.True(t, Deliver("cam", func() string { return "cam" }, []string{"Camera"}, sink))
	assert.Equal(t, []string{"Camera"}, got)

	got = nil
	assert.False(t, Deliver("cam", func() string { return "came" }, []string{"Camera"}, sink))
	assert.Nil(t, got)

	assert.True(t, Deliver("cam", nil, []string{"x"}, sink))
	assert.Equal(t, []string{"x"}, got)
}
