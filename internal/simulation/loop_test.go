package simulation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopRunsAtLeastOneStep(t *testing.T) {
	var ticks atomic.Uint64
	loop := NewLoop(120, func(tick uint64, step time.Duration) {
		ticks.Store(tick)
	})
	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	loop.Stop()
	if ticks.Load() == 0 {
		t.Fatalf("expected loop to step at least once")
	}
}

func TestLoopTickIndexIncreasesByOne(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64
	loop := NewLoop(200, func(tick uint64, step time.Duration) {
		mu.Lock()
		seen = append(seen, tick)
		mu.Unlock()
	})
	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	loop.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 {
		t.Fatalf("expected at least one tick")
	}
	for i, tick := range seen {
		if tick != uint64(i)+1 {
			t.Fatalf("position %d: expected tick %d, got %d", i, i+1, tick)
		}
	}
}

func TestLoopStepDuration(t *testing.T) {
	loop := NewLoop(120, nil)
	if got, want := loop.StepDuration(), time.Second/120; got != want {
		t.Fatalf("unexpected step duration %v, want %v", got, want)
	}

	//1.- Non-positive rates fall back to the 60 Hz default.
	fallback := NewLoop(0, nil)
	if got, want := fallback.StepDuration(), time.Second/60; got != want {
		t.Fatalf("unexpected fallback step duration %v, want %v", got, want)
	}
}
