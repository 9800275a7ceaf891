package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"splitflap/config"
	"splitflap/core"
	"splitflap/sim"
)

func testModel(t *testing.T) (simModel, *sim.Runner) {
	t.Helper()
	cfg := config.Default()
	cfg.Sim.Seed = 3
	r, err := newRunner(cfg)
	if err != nil {
		t.Fatalf("newRunner failed: %v", err)
	}
	return initialModel(r, cfg), r
}

func TestSymbolText(t *testing.T) {
	if got := symbolText('Q'); got != "Q" {
		t.Errorf("Expected Q, got %q", got)
	}
	if got := symbolText(0x0B); got != "0B" {
		t.Errorf("Expected 0B, got %q", got)
	}
}

func TestRenderCells(t *testing.T) {
	s := sim.State{
		Bits: []core.BitSnapshot{
			{State: core.BitSettled, Target: 'H'},
			{State: core.BitSeeking, Target: 'I'},
		},
		Showing: []byte("HX"),
	}
	out := renderCells(s, 1)
	for _, want := range []string{"H", "X", "[I]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected cells to contain %q:\n%s", want, out)
		}
	}
}

func TestSensorLabel(t *testing.T) {
	s := sim.State{Bits: []core.BitSnapshot{{}, {Remaining: 42}}}
	if got := sensorLabel(s, 1); !strings.Contains(got, "bit 1, 42 steps to go") {
		t.Errorf("Expected remaining steps in label, got %q", got)
	}
	if got := sensorLabel(sim.State{}, 0); strings.Contains(got, "steps to go") {
		t.Errorf("Expected no step count without state, got %q", got)
	}
}

func TestModelTracksState(t *testing.T) {
	m, r := testModel(t)

	s := r.Advance(0)
	<-r.States()
	updated, _ := m.Update(stateMsg(s))
	m = updated.(simModel)
	if len(m.state.Bits) != 4 {
		t.Fatalf("Expected 4 bits in state, got %d", len(m.state.Bits))
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = updated.(simModel)
	if m.bit != 3 {
		t.Errorf("Expected selection to wrap to bit 3, got %d", m.bit)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(simModel)
	if m.bit != 0 {
		t.Errorf("Expected selection to wrap to bit 0, got %d", m.bit)
	}

	if !strings.Contains(m.View(), "Split-flap simulator") {
		t.Errorf("Expected title in view")
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || !updated.(simModel).quitting {
		t.Errorf("Expected q to quit")
	}
}

func TestModelKeepsLastLogs(t *testing.T) {
	m, _ := testModel(t)
	for i := 0; i < maxLogs+3; i++ {
		updated, _ := m.Update(logMsg(strings.Repeat("x", i+1)))
		m = updated.(simModel)
	}
	if len(m.logs) != maxLogs {
		t.Fatalf("Expected %d logs, got %d", maxLogs, len(m.logs))
	}
	if m.logs[maxLogs-1] != strings.Repeat("x", maxLogs+3) {
		t.Errorf("Expected newest log last, got %q", m.logs[maxLogs-1])
	}
}
