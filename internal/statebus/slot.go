package statebus

import "sync"

// LatestSlot hands the most recently produced snapshot from one producer to
// any number of polling consumers. Writes overwrite unconditionally, so the
// producer never blocks and consumers never see more than the newest unread
// value; staleness, not backpressure, is the failure mode. The slot has no
// error paths at all.
type LatestSlot[P any] struct {
	mu      sync.Mutex
	current Snapshot[P]
	full    bool
}

// NewLatestSlot constructs an empty slot.
func NewLatestSlot[P any]() *LatestSlot[P] {
	return &LatestSlot[P]{}
}

// Put stores the snapshot, discarding any previously stored unread value.
func (s *LatestSlot[P]) Put(snap Snapshot[P]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.current = snap
	s.full = true
	s.mu.Unlock()
}

// TryTake atomically retrieves and clears the stored snapshot. The second
// return value is false when the slot is empty, either because nothing was
// ever written or because an earlier take already consumed it.
func (s *LatestSlot[P]) TryTake() (Snapshot[P], bool) {
	if s == nil {
		var zero Snapshot[P]
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		var zero Snapshot[P]
		return zero, false
	}
	//1.- Hand the value out and clear the slot in one critical section so a
	// second immediate take observes emptiness.
	snap := s.current
	s.current = Snapshot[P]{}
	s.full = false
	return snap, true
}

// Peek returns the stored snapshot without clearing it, for diagnostics.
func (s *LatestSlot[P]) Peek() (Snapshot[P], bool) {
	if s == nil {
		var zero Snapshot[P]
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		var zero Snapshot[P]
		return zero, false
	}
	return s.current, true
}
