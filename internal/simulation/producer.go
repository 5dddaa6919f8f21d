package simulation

import (
	"time"

	"simviz/statecore/internal/statebus"
)

// Producer is the single-writer handle that publishes snapshots into both
// handoff sinks: the latest-only slot sampled by the renderer and the ring
// retained for diagnostics. Constructing a Producer is the act of claiming
// the writer role; Publish must be driven from one goroutine, typically the
// fixed-timestep loop. Consumers reach the sinks through Slot and Ring.
type Producer[P any] struct {
	slot    *statebus.LatestSlot[P]
	ring    *statebus.SnapshotRing[P]
	now     func() time.Time
	next    uint64
	lastSim float64
}

// NewProducer constructs a producer with a fresh slot and a ring of the
// given capacity. The clock may be nil, in which case time.Now is used.
func NewProducer[P any](ringCapacity int, clock func() time.Time) (*Producer[P], error) {
	ring, err := statebus.NewSnapshotRing[P](ringCapacity)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return &Producer[P]{
		slot: statebus.NewLatestSlot[P](),
		ring: ring,
		now:  clock,
	}, nil
}

// Publish stamps payload into a snapshot and hands it to the slot first and
// the ring second. Step indices increase by one per call; simTime is clamped
// so it never runs backwards relative to the previous publish.
func (p *Producer[P]) Publish(simTime float64, payload P) statebus.Snapshot[P] {
	if p == nil {
		return statebus.Snapshot[P]{}
	}
	//1.- Keep simulated time monotone even if the caller hands us a stale value.
	if simTime < p.lastSim {
		simTime = p.lastSim
	}
	p.lastSim = simTime

	snap := statebus.Snapshot[P]{
		Step:       p.next,
		SimTime:    simTime,
		CapturedAt: p.now().UTC(),
		Payload:    payload,
	}
	p.next++

	//2.- Slot before ring, so a consumer polling between the two writes sees
	// the freshest value on the hot path.
	p.slot.Put(snap)
	p.ring.Append(snap)
	return snap
}

// Slot exposes the latest-only handoff for consumers to poll.
func (p *Producer[P]) Slot() *statebus.LatestSlot[P] {
	if p == nil {
		return nil
	}
	return p.slot
}

// Ring exposes the bounded snapshot history for diagnostics readers.
func (p *Producer[P]) Ring() *statebus.SnapshotRing[P] {
	if p == nil {
		return nil
	}
	return p.ring
}
