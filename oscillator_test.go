package main

import (
	"math"
	"testing"
)

func TestOscillatorStepsAdvanceSimTime(t *testing.T) {
	osc := NewOscillator(1.0, 1.0, 0)

	dt := 1.0 / 120.0
	var simTime float64
	for i := 0; i < 120; i++ {
		simTime, _ = osc.Step(dt)
	}
	if math.Abs(simTime-1.0) > 1e-9 {
		t.Fatalf("expected one simulated second after 120 steps, got %v", simTime)
	}
}

func TestOscillatorPauseFreezesState(t *testing.T) {
	osc := NewOscillator(1.0, 1.0, 0)
	osc.Step(0.01)
	osc.Retune(1.0, 1.0, 0, true)

	before, stateBefore := osc.Step(0.01)
	after, stateAfter := osc.Step(0.01)

	if before != after {
		t.Fatalf("expected sim time frozen while paused, got %v then %v", before, after)
	}
	if stateBefore != stateAfter {
		t.Fatalf("expected state frozen while paused, got %+v then %+v", stateBefore, stateAfter)
	}
}

func TestOscillatorAmplitudeRetuneReleasesFromRest(t *testing.T) {
	osc := NewOscillator(1.0, 1.0, 0)
	for i := 0; i < 10; i++ {
		osc.Step(0.01)
	}

	osc.Retune(1.0, 2.0, 0, false)

	_, state := osc.Step(1e-9)
	if math.Abs(state.Position-2.0) > 1e-3 {
		t.Fatalf("expected release from new amplitude 2.0, got position %v", state.Position)
	}
}

func TestOscillatorEnergyDecaysWithDamping(t *testing.T) {
	osc := NewOscillator(1.0, 1.0, 0.5)

	_, first := osc.Step(1.0 / 240.0)
	var last OscillatorState
	for i := 0; i < 480; i++ {
		_, last = osc.Step(1.0 / 240.0)
	}
	if last.Energy >= first.Energy {
		t.Fatalf("expected energy to decay under damping, got %v then %v", first.Energy, last.Energy)
	}
}
