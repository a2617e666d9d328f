package view

import "sync"

// RowGuard tracks which rows have a confirm call in flight, so a second
// click on the same row cannot double-submit while the first is pending.
type RowGuard struct {
	mu         sync.Mutex
	submitting map[string]bool
}

// Begin marks id as submitting. Returns false if a submission for id is
// already in flight, in which case the caller must not issue another.
func (g *RowGuard) Begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.submitting == nil {
		g.submitting = make(map[string]bool)
	}
	if g.submitting[id] {
		return false
	}
	g.submitting[id] = true
	return true
}

// End releases the in-flight mark for id, whether the call succeeded or not.
func (g *RowGuard) End(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.submitting, id)
}

// FetchSequencer assigns monotonically increasing sequence numbers to list
// fetches so a slow, stale response cannot overwrite the result of a later
// fetch that already landed.
type FetchSequencer struct {
	mu      sync.Mutex
	next    uint64
	applied uint64
}

// Next reserves the sequence number for a fetch about to start.
func (s *FetchSequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Commit reports whether a fetch with the given sequence number is still
// authoritative. Stale results return false and must be dropped.
func (s *FetchSequencer) Commit(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	return true
}
