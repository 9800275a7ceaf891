package sim

import (
	"context"
	"testing"
	"time"
)

func TestRunnerAdvancePacesVirtualTime(t *testing.T) {
	h := newHarness(t, testConfig(2), Options{MagnetSteps: 12, Start: []uint32{100, 200}}, "AB")
	r := NewRunner(h.rig, h.shaft, RunnerConfig{MaxCycles: 100000})

	s := r.Advance(100 * time.Millisecond)
	if s.Virtual < 100*time.Millisecond {
		t.Errorf("Expected virtual time to reach 100ms, got %v", s.Virtual)
	}
	// 800us per cycle
	if s.Stats.Cycles != 125 {
		t.Errorf("Expected 125 cycles, got %d", s.Stats.Cycles)
	}

	select {
	case got := <-r.States():
		if got.Stats.Cycles != s.Stats.Cycles {
			t.Errorf("Expected published state to match, got %d cycles", got.Stats.Cycles)
		}
	default:
		t.Errorf("Expected a published state")
	}
}

func TestRunnerCapsCyclesPerUpdate(t *testing.T) {
	h := newHarness(t, testConfig(1), Options{MagnetSteps: 12, Start: []uint32{100}}, "A")
	r := NewRunner(h.rig, h.shaft, RunnerConfig{MaxCycles: 10})

	s := r.Advance(time.Hour)
	if s.Stats.Cycles != 10 {
		t.Errorf("Expected cap of 10 cycles, got %d", s.Stats.Cycles)
	}
}

func TestRunnerStateChannelKeepsLatest(t *testing.T) {
	h := newHarness(t, testConfig(1), Options{MagnetSteps: 12, Start: []uint32{100}}, "A")
	r := NewRunner(h.rig, h.shaft, RunnerConfig{})

	r.Advance(time.Millisecond)
	last := r.Advance(10 * time.Millisecond)

	got := <-r.States()
	if got.Stats.Cycles != last.Stats.Cycles {
		t.Errorf("Expected latest state (%d cycles), got %d", last.Stats.Cycles, got.Stats.Cycles)
	}
}

func TestRunnerStartStops(t *testing.T) {
	h := newHarness(t, testConfig(1), Options{MagnetSteps: 12, Start: []uint32{100}}, "A")
	r := NewRunner(h.rig, h.shaft, RunnerConfig{Hz: 100, Speed: 10})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := r.Start(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	if h.shaft.Stats().Cycles == 0 {
		t.Errorf("Expected the display to have run")
	}

	select {
	case msg := <-r.Logs():
		if msg == "" {
			t.Errorf("Expected a start log line")
		}
	default:
		t.Errorf("Expected a start log line")
	}
}

func TestRunnerStepReportsAdvance(t *testing.T) {
	h := newHarness(t, testConfig(1), Options{MagnetSteps: 12, Start: []uint32{3000}}, "A")
	r := NewRunner(h.rig, h.shaft, RunnerConfig{})

	advanced := 0
	for i := 0; i < 10000 && advanced < 2; i++ {
		if r.Step().Advanced {
			advanced++
		}
	}
	if advanced != 2 {
		t.Fatalf("Expected two advances, got %d", advanced)
	}
	if got := r.Snapshot().Showing[0]; got != 'A' {
		t.Errorf("Expected A on display at the second advance, got %q", got)
	}
}
