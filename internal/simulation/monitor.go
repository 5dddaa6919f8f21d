package simulation

import (
	"sync"
	"time"
)

// StepStats summarises observed fixed-step durations.
type StepStats struct {
	Samples int
	Average time.Duration
	Max     time.Duration
	Last    time.Duration
}

// AverageHz derives the steps-per-second equivalent of the average duration.
func (s StepStats) AverageHz() float64 {
	if s.Average <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Average)
}

// StepMonitor accumulates timing statistics for the fixed-timestep loop so
// the diagnostics endpoint can report whether the producer keeps its budget.
type StepMonitor struct {
	mu      sync.Mutex
	samples int
	total   time.Duration
	max     time.Duration
	last    time.Duration
}

// NewStepMonitor constructs an empty monitor.
func NewStepMonitor() *StepMonitor {
	return &StepMonitor{}
}

// Observe records the duration of one completed step.
func (m *StepMonitor) Observe(duration time.Duration) {
	if m == nil || duration <= 0 {
		return
	}
	m.mu.Lock()
	m.samples++
	m.total += duration
	if duration > m.max {
		m.max = duration
	}
	m.last = duration
	m.mu.Unlock()
}

// Stats returns a copy of the aggregated timings.
func (m *StepMonitor) Stats() StepStats {
	if m == nil {
		return StepStats{}
	}
	m.mu.Lock()
	samples := m.samples
	total := m.total
	max := m.max
	last := m.last
	m.mu.Unlock()

	average := time.Duration(0)
	if samples > 0 {
		average = total / time.Duration(samples)
	}
	return StepStats{Samples: samples, Average: average, Max: max, Last: last}
}

// Reset clears the accumulated statistics.
func (m *StepMonitor) Reset() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.samples = 0
	m.total = 0
	m.max = 0
	m.last = 0
	m.mu.Unlock()
}
