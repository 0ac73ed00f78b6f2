package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yashubustudio/launchersearch/enhancer"
)

func TestLiveQueryCancelsPrevious(t *testing.T) {
	var l liveQuery
	first := l.begin("ka")
	second := l.begin("kam")

	assert.Error(t, first.Err())
	assert.NoError(t, second.Err())
	assert.Equal(t, "kam", l.current())

	var got []string
	assert.False(t, enhancer.Deliver("ka", l.current, []string{"old"}, func(r []string) { got = r }))
	assert.True(t, enhancer.Deliver("kam", l.current, []string{"new"}, func(r []string) { got = r }))
	assert.Equal(t, []string{"new"}, got)

	l.stop()
	assert.Error(t, second.Err())
	l.stop()
}
