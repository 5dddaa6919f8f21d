package simulation

import (
	"errors"
	"testing"
	"time"

	"simviz/statecore/internal/statebus"
)

type pointState struct {
	Position float64
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewProducerRejectsInvalidRingCapacity(t *testing.T) {
	if _, err := NewProducer[pointState](0, nil); !errors.Is(err, statebus.ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
}

func TestProducerStampsMonotonicSteps(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	producer, err := NewProducer[pointState](8, fixedClock(base))
	if err != nil {
		t.Fatalf("create producer: %v", err)
	}

	first := producer.Publish(0.1, pointState{Position: 1})
	second := producer.Publish(0.2, pointState{Position: 2})

	if first.Step != 0 || second.Step != 1 {
		t.Fatalf("expected steps 0 and 1, got %d and %d", first.Step, second.Step)
	}
	if !first.CapturedAt.Equal(base) {
		t.Fatalf("expected capture time %v, got %v", base, first.CapturedAt)
	}
}

func TestProducerClampsSimTimeBackwards(t *testing.T) {
	producer, err := NewProducer[pointState](8, nil)
	if err != nil {
		t.Fatalf("create producer: %v", err)
	}

	producer.Publish(1.5, pointState{})
	stale := producer.Publish(0.9, pointState{})

	if stale.SimTime != 1.5 {
		t.Fatalf("expected sim time clamped to 1.5, got %v", stale.SimTime)
	}
}

func TestProducerFeedsBothSinks(t *testing.T) {
	producer, err := NewProducer[pointState](4, nil)
	if err != nil {
		t.Fatalf("create producer: %v", err)
	}

	producer.Publish(0.1, pointState{Position: 1})
	producer.Publish(0.2, pointState{Position: 2})

	//1.- The slot only retains the newest snapshot.
	latest, ok := producer.Slot().TryTake()
	if !ok || latest.Step != 1 {
		t.Fatalf("expected slot to hold step 1, got %+v ok=%v", latest, ok)
	}
	if _, ok := producer.Slot().TryTake(); ok {
		t.Fatalf("expected slot drained after take")
	}

	//2.- The ring retains both, oldest first.
	list := producer.Ring().ToList()
	if len(list) != 2 || list[0].Step != 0 || list[1].Step != 1 {
		t.Fatalf("unexpected ring contents: %+v", list)
	}
}
