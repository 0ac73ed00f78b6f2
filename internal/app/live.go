package app

import (
	"context"
	"sync"
)

// liveQuery tracks the text currently in the search box and cancels the
// computation started for the previous text.
type liveQuery struct {
	mu     sync.Mutex
	text   string
	cancel context.CancelFunc
}

// begin records text as current and returns a context that is cancelled once
// a newer text arrives.
func (l *liveQuery) begin(text string) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.text = text
	l.cancel = cancel
	return ctx
}

func (l *liveQuery) current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *liveQuery) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
