package enhancer

import (
	"sync"
	"time"
	"unicode/utf8"
)

// PendingMode selects how no-result queries are tracked.
type PendingMode string

const (
	// PendingSession tags entries with a search session and suppresses
	// repeats of the last query inside the cooldown.
	PendingSession PendingMode = "session"
	// PendingFlag only tracks a resolved flag per query.
	PendingFlag PendingMode = "flag"
)

type pendingEntry struct {
	query    string
	at       time.Time
	session  int
	resolved bool
}

// PendingQueries remembers recent queries that found nothing so a later
// search can recover them.
type PendingQueries struct {
	mu       sync.Mutex
	mode     PendingMode
	capacity int
	cooldown time.Duration
	entries  []pendingEntry
}

// NewPendingQueries builds a store from cfg.
func NewPendingQueries(cfg PendingConfig) *PendingQueries {
	if cfg.Mode == "" {
		cfg.Mode = PendingSession
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 30
	}
	return &PendingQueries{
		mode:     cfg.Mode,
		capacity: cfg.Capacity,
		cooldown: time.Duration(cfg.CooldownMs) * time.Millisecond,
	}
}

// Mode reports the tracking mode.
func (p *PendingQueries) Mode() PendingMode { return p.mode }

// RecordNoResult remembers q. Queries shorter than two runes are ignored.
func (p *PendingQueries) RecordNoResult(q string, at time.Time, session int) {
	if utf8.RuneCountInString(q) < 2 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.mode {
	case PendingFlag:
		for i := range p.entries {
			if e := &p.entries[i]; e.query == q && !e.resolved {
				e.at = at
				return
			}
		}
	default:
		if n := len(p.entries); n > 0 {
			last := p.entries[n-1]
			if last.query == q && at.Sub(last.at) < p.cooldown {
				return
			}
		}
	}

	p.entries = append(p.entries, pendingEntry{query: q, at: at, session: session})
	if len(p.entries) > p.capacity {
		p.entries = append(p.entries[:0], p.entries[len(p.entries)-p.capacity:]...)
	}
}

// MarkResolved flags the newest unresolved entry for q.
func (p *PendingQueries) MarkResolved(q string) {
	if q == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.entries) - 1; i >= 0; i-- {
		if e := &p.entries[i]; e.query == q && !e.resolved {
			e.resolved = true
			return
		}
	}
}

// PollUnresolved returns and resolves the newest unresolved query recorded
// within window of now that differs from current. In session mode only
// entries from an earlier session qualify.
func (p *PendingQueries) PollUnresolved(current string, now time.Time, window time.Duration, session int) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.entries) - 1; i >= 0; i-- {
		e := &p.entries[i]
		if now.Sub(e.at) > window {
			break
		}
		if e.resolved || e.query == current {
			continue
		}
		if p.mode != PendingFlag && e.session >= session {
			continue
		}
		e.resolved = true
		return e.query, true
	}
	return "", false
}

// Len returns the number of tracked entries.
func (p *PendingQueries) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
