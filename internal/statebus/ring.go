package statebus

import (
	"errors"
	"sync"
)

// ErrInvalidCapacity signals that a ring was constructed with a non-positive
// capacity. It is the only failure the statebus can produce and indicates a
// configuration bug rather than a runtime condition worth retrying.
var ErrInvalidCapacity = errors.New("ring capacity must be positive")

// SnapshotRing retains a bounded history of the most recent snapshots for
// diagnostics and playback. The backing array is allocated once at
// construction and appends rotate indices instead of resizing, so steady
// state appends are O(1) and allocation free. Append assumes a single
// writer; reads share the mutex so they never observe a half-rotated ring.
type SnapshotRing[P any] struct {
	mu    sync.Mutex
	buf   []Snapshot[P]
	head  int
	count int
}

// NewSnapshotRing constructs an empty ring holding at most capacity entries.
func NewSnapshotRing[P any](capacity int) (*SnapshotRing[P], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &SnapshotRing[P]{buf: make([]Snapshot[P], capacity)}, nil
}

// Append inserts snap as the newest entry, evicting the oldest entry when
// the ring is full.
func (r *SnapshotRing[P]) Append(snap Snapshot[P]) {
	if r == nil {
		return
	}
	r.mu.Lock()
	//1.- Write into the slot just past the newest entry, wrapping around.
	idx := (r.head + r.count) % len(r.buf)
	r.buf[idx] = snap
	//2.- Either grow the occupied window or advance head to drop the oldest.
	if r.count < len(r.buf) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.buf)
	}
	r.mu.Unlock()
}

// ToList copies the retained snapshots into a fresh slice, oldest first.
// Mutating the returned slice never affects the ring.
func (r *SnapshotRing[P]) ToList() []Snapshot[P] {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot[P], r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Latest returns the most recently appended snapshot, or false when the ring
// holds nothing.
func (r *SnapshotRing[P]) Latest() (Snapshot[P], bool) {
	if r == nil {
		var zero Snapshot[P]
		return zero, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		var zero Snapshot[P]
		return zero, false
	}
	return r.buf[(r.head+r.count-1)%len(r.buf)], true
}

// Len reports the number of currently retained snapshots.
func (r *SnapshotRing[P]) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap reports the fixed capacity the ring was constructed with.
func (r *SnapshotRing[P]) Cap() int {
	if r == nil {
		return 0
	}
	return len(r.buf)
}

// Clear empties the ring. Retained snapshots are dropped so their payloads
// can be collected.
func (r *SnapshotRing[P]) Clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	for i := range r.buf {
		r.buf[i] = Snapshot[P]{}
	}
	r.head = 0
	r.count = 0
	r.mu.Unlock()
}
