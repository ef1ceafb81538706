// Package dedupe tracks identifiers already seen in a dataset.
package dedupe

import (
	"sort"
	"sync"
)

// Tracker records identifiers and counts repeats. It is safe for concurrent
// use.
type Tracker struct {
	mu     sync.Mutex
	seen   map[string]int
	ignore map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		seen:   make(map[string]int),
		ignore: make(map[string]struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// SeenAndRecord records id and reports whether it had been recorded before.
// Ignored identifiers are never reported as seen.
func (t *Tracker) SeenAndRecord(id string) bool {
	if _, skip := t.ignore[id]; skip {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[id]++
	return t.seen[id] > 1
}

// Duplicates returns every identifier recorded more than once with its count,
// sorted by identifier.
func (t *Tracker) Duplicates() []Duplicate {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Duplicate
	for id, n := range t.seen {
		if n > 1 {
			out = append(out, Duplicate{ID: id, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Size returns the number of distinct identifiers recorded.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Duplicate is an identifier that occurred more than once.
type Duplicate struct {
	ID    string
	Count int
}
