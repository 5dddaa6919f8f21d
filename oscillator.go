package main

import (
	"math"
	"sync"
)

// OscillatorState is the snapshot payload the demo physics loop produces: a
// damped harmonic oscillator integrated at the fixed timestep. It stands in
// for the real simulation on the producer side of the contract.
type OscillatorState struct {
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
	Energy   float64 `json:"energy"`
}

// Oscillator integrates a damped spring with semi-implicit Euler. Parameters
// are read under a lock so the settings endpoint can retune the oscillator
// while the loop is running.
type Oscillator struct {
	mu        sync.Mutex
	frequency float64
	amplitude float64
	damping   float64
	paused    bool

	position float64
	velocity float64
	simTime  float64
}

// NewOscillator constructs an oscillator released from its amplitude at rest.
func NewOscillator(frequencyHz, amplitude, damping float64) *Oscillator {
	return &Oscillator{
		frequency: frequencyHz,
		amplitude: amplitude,
		damping:   damping,
		position:  amplitude,
	}
}

// Step advances the oscillator by dt seconds and returns the simulated time
// and resulting state.
func (o *Oscillator) Step(dt float64) (float64, OscillatorState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.paused {
		//1.- Semi-implicit Euler keeps the undamped oscillator stable at
		// fixed timesteps.
		omega := 2 * math.Pi * o.frequency
		accel := -omega*omega*o.position - o.damping*o.velocity
		o.velocity += accel * dt
		o.position += o.velocity * dt
		o.simTime += dt
	}

	omega := 2 * math.Pi * o.frequency
	energy := 0.5*o.velocity*o.velocity + 0.5*omega*omega*o.position*o.position
	return o.simTime, OscillatorState{
		Position: o.position,
		Velocity: o.velocity,
		Energy:   energy,
	}
}

// Tuning reports the current parameter values.
func (o *Oscillator) Tuning() (frequencyHz, amplitude, damping float64, paused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frequency, o.amplitude, o.damping, o.paused
}

// Retune applies new parameter values. Retuning the amplitude re-releases
// the oscillator from the new amplitude at rest.
func (o *Oscillator) Retune(frequencyHz, amplitude, damping float64, paused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if amplitude != o.amplitude {
		o.position = amplitude
		o.velocity = 0
	}
	o.frequency = frequencyHz
	o.amplitude = amplitude
	o.damping = damping
	o.paused = paused
}
