package app

import (
	"strings"
	"sync"
)

// logCapture is an io.Writer that splits log output into lines and forwards
// them to the UI log. Lines written before a sink is attached are kept, up to
// limit, and replayed on attach.
type logCapture struct {
	mu      sync.Mutex
	pending []string
	limit   int
	sink    func(string)
}

func newLogCapture(limit int) *logCapture {
	return &logCapture{limit: limit}
}

func (l *logCapture) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	l.mu.Lock()
	sink := l.sink
	var lines []string
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		if sink == nil {
			l.pending = append(l.pending, part)
			continue
		}
		lines = append(lines, part)
	}
	if len(l.pending) > l.limit {
		l.pending = l.pending[len(l.pending)-l.limit:]
	}
	l.mu.Unlock()
	for _, line := range lines {
		sink(line)
	}
	return len(p), nil
}

func (l *logCapture) attach(sink func(string)) {
	l.mu.Lock()
	pending := l.pending
	l.pending = nil
	l.sink = sink
	l.mu.Unlock()
	for _, line := range pending {
		sink(line)
	}
}
