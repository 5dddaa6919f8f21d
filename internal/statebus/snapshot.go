// Package statebus provides the handoff primitives that move simulation
// results from the fixed-timestep physics loop to asynchronous consumers:
// an overwrite-on-write latest-only slot and a bounded snapshot ring.
package statebus

import "time"

// Snapshot captures the simulation state produced by one fixed timestep.
// Snapshots are immutable once constructed; a producer that wants to change
// state builds a new Snapshot instead of mutating an existing one, which
// keeps read-only sharing across goroutines safe without extra locking.
type Snapshot[P any] struct {
	// Step is the monotonically increasing index of the fixed tick that
	// produced this snapshot.
	Step uint64
	// SimTime is the simulated time in seconds, non-decreasing across
	// successive snapshots from the same producer.
	SimTime float64
	// CapturedAt records the wall-clock instant the snapshot was built.
	CapturedAt time.Time
	// Payload carries the simulation state fields. The statebus treats it
	// as opaque; well-formedness is the producer's responsibility.
	Payload P
}
