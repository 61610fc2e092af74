// Package selector ranks network interfaces for an outbound dial attempt.
// A Selector is a pure function of a health snapshot: no mutation, no I/O,
// so the same Selector can be reused across the fallback loop against a
// locally-modified working copy.
package selector

import "github.com/netmix/egressd/internal/health"

// Candidate is one interface's position in a ranked result.
type Candidate struct {
	Name  string
	Score float64
}

// Selector ranks interfaces given a health snapshot, best first.
type Selector interface {
	// Rank returns every candidate ordered best-to-worst. Ties are broken
	// by the order interfaces appear in snapshot.
	Rank(snapshot []health.Snapshot) []Candidate
}

// Best returns the name of the top-ranked interface, or "" if snapshot is
// empty.
func Best(s Selector, snapshot []health.Snapshot) (string, bool) {
	ranked := s.Rank(snapshot)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Name, true
}

// WorkingSet is a mutable local copy of a health snapshot used by the
// fallback loop to record synthetic failures between dial attempts
// without touching the shared Health Store.
type WorkingSet struct {
	byName map[string]*health.Snapshot
	order  []string
}

// NewWorkingSet deep-copies snapshot into an independently mutable set.
func NewWorkingSet(snapshot []health.Snapshot) *WorkingSet {
	ws := &WorkingSet{
		byName: make(map[string]*health.Snapshot, len(snapshot)),
		order:  make([]string, 0, len(snapshot)),
	}
	for i := range snapshot {
		cp := snapshot[i]
		lat := make([]float64, len(cp.Latencies))
		copy(lat, cp.Latencies)
		cp.Latencies = lat
		ws.byName[cp.Name] = &cp
		ws.order = append(ws.order, cp.Name)
	}
	return ws
}

// Snapshot returns the working set's current state as a slice, in
// original enumeration order, suitable for feeding back into Rank.
func (ws *WorkingSet) Snapshot() []health.Snapshot {
	out := make([]health.Snapshot, 0, len(ws.order))
	for _, name := range ws.order {
		out = append(out, *ws.byName[name])
	}
	return out
}

// RecordFailure increments the failure counter for name in this working
// copy only, leaving the shared Health Store untouched.
func (ws *WorkingSet) RecordFailure(name string) {
	if s, ok := ws.byName[name]; ok {
		s.Failures++
	}
}

// Len returns the number of interfaces tracked in the working set.
func (ws *WorkingSet) Len() int {
	return len(ws.order)
}
