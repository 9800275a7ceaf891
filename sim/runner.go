package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"splitflap/core"
)

// State is one snapshot of the simulated display
type State struct {
	Virtual time.Duration // Simulated time
	Bits    []core.BitSnapshot
	Showing []byte // Symbols physically in the windows
	Stats   core.ShaftStats
}

// RunnerConfig controls pacing
type RunnerConfig struct {
	Hz        int     // UI updates per second
	Speed     float64 // Simulated seconds per wall second
	MaxCycles int     // Cap on cycles run per update
}

// Runner drives a shaft on a rig in real time and publishes snapshots
type Runner struct {
	rig   *Rig
	shaft *core.Shaft
	cfg   RunnerConfig

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// NewRunner creates a runner. The shaft must have been built on rig.Hardware().
func NewRunner(rig *Rig, shaft *core.Shaft, cfg RunnerConfig) *Runner {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if cfg.MaxCycles <= 0 {
		cfg.MaxCycles = 20000
	}
	return &Runner{
		rig:     rig,
		shaft:   shaft,
		cfg:     cfg,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 16),
	}
}

// States returns a channel that receives state updates
func (r *Runner) States() <-chan State {
	return r.stateCh
}

// Logs returns a channel that receives log messages
func (r *Runner) Logs() <-chan string {
	return r.logCh
}

// Log queues a message for the UI, dropping it if the channel is full.
// It is installed as the core debug writer while the runner is started.
func (r *Runner) Log(msg string) {
	line := fmt.Sprintf("[%s] %s", r.rig.Now().Truncate(time.Millisecond), msg)
	select {
	case r.logCh <- line:
	default:
	}
}

// Start runs the display until ctx is cancelled
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("already running")
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	core.SetDebugWriter(r.Log)
	r.Log(fmt.Sprintf("display started: %d bits at %.1fx", len(r.shaft.Bits()), r.cfg.Speed))

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.Hz))
	defer ticker.Stop()

	begin := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			target := time.Duration(float64(now.Sub(begin)) * r.cfg.Speed)
			r.Advance(target)
		}
	}
}

// Advance runs cycles until virtual time reaches target or the per-update
// cap is hit, then publishes a snapshot
func (r *Runner) Advance(target time.Duration) State {
	for i := 0; i < r.cfg.MaxCycles && r.rig.Now() < target; i++ {
		r.shaft.Cycle()
	}
	s := r.Snapshot()
	r.sendState(s)
	return s
}

// Step runs a single cycle
func (r *Runner) Step() core.CycleResult {
	return r.shaft.Cycle()
}

// Snapshot captures the current display state
func (r *Runner) Snapshot() State {
	return State{
		Virtual: r.rig.Now(),
		Bits:    r.shaft.Snapshot(),
		Showing: r.rig.Showing(),
		Stats:   r.shaft.Stats(),
	}
}

func (r *Runner) sendState(s State) {
	select {
	case r.stateCh <- s:
	default:
		// Drop the stale state and replace it
		select {
		case <-r.stateCh:
		default:
		}
		select {
		case r.stateCh <- s:
		default:
		}
	}
}
