// Package simulation drives the fixed-timestep producer side of the state
// synchronization core: a catch-up stepping loop, the single-producer
// publishing handle, and timing statistics for the diagnostics surface.
package simulation

import (
	"context"
	"time"
)

// StepFunc advances the external physics state by one fixed timestep. The
// tick index increases by one per invocation, starting at 1.
type StepFunc func(tick uint64, step time.Duration)

// Loop runs a fixed-timestep callback at the configured rate, independent of
// any consumer cadence. Late wakeups are absorbed by an accumulator so the
// callback still observes a constant step.
type Loop struct {
	step   time.Duration
	fn     StepFunc
	ticker *time.Ticker
	done   chan struct{}
	tick   uint64
}

// NewLoop configures a loop targeting rateHz fixed steps per second.
func NewLoop(rateHz float64, fn StepFunc) *Loop {
	if rateHz <= 0 {
		rateHz = 60
	}
	if fn == nil {
		fn = func(uint64, time.Duration) {}
	}
	interval := time.Duration(float64(time.Second) / rateHz)
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{step: interval, fn: fn}
}

// Start begins ticking until the context is cancelled or Stop is invoked.
func (l *Loop) Start(ctx context.Context) {
	if l == nil || l.fn == nil {
		return
	}

	l.ticker = time.NewTicker(l.step)
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		defer l.ticker.Stop()
		last := time.Now()
		accumulator := time.Duration(0)
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-l.ticker.C:
				//1.- Bank the elapsed wall time and run as many fixed steps
				// as fit, so a slow wakeup never skews the simulated clock.
				accumulator += now.Sub(last)
				last = now
				for accumulator >= l.step {
					l.tick++
					l.fn(l.tick, l.step)
					accumulator -= l.step
				}
			}
		}
	}()
}

// Stop cancels the loop and waits for the stepping goroutine to exit.
func (l *Loop) Stop() {
	if l == nil {
		return
	}
	if l.ticker != nil {
		l.ticker.Stop()
	}
	if l.done != nil {
		<-l.done
		l.done = nil
	}
}

// StepDuration exposes the configured fixed timestep.
func (l *Loop) StepDuration() time.Duration {
	if l == nil {
		return 0
	}
	return l.step
}
