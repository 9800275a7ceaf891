package device

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"splitflap/core"
	"splitflap/sim"
)

// loopback connects a Device to core.Diagnostics in memory. The host side is
// a serial.Port, the display side a core.ByteChannel.
type loopback struct {
	mu      sync.Mutex
	toDev   []byte
	toHost  []byte
	closed  bool
	flushed int
}

// ---- host side ----

func (l *loopback) Read(p []byte) (int, error) {
	l.mu.Lock()
	if len(l.toHost) == 0 {
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return 0, io.ErrClosedPipe
		}
		// Behave like a read timeout
		time.Sleep(time.Millisecond)
		return 0, io.EOF
	}
	n := copy(p, l.toHost)
	l.toHost = l.toHost[n:]
	l.mu.Unlock()
	return n, nil
}

func (l *loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.toDev = append(l.toDev, p...)
	return len(p), nil
}

func (l *loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushed++
	l.toHost = nil
	return nil
}

// ---- display side ----

type displaySide struct{ l *loopback }

func (d displaySide) Buffered() int {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()
	return len(d.l.toDev)
}

func (d displaySide) ReadByte() (byte, error) {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()
	if len(d.l.toDev) == 0 {
		return 0, io.EOF
	}
	b := d.l.toDev[0]
	d.l.toDev = d.l.toDev[1:]
	return b, nil
}

func (d displaySide) Write(p []byte) (int, error) {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()
	d.l.toHost = append(d.l.toHost, p...)
	return len(p), nil
}

// startDisplay runs a simulated two-cell display whose diagnostic port is
// the display side of a loopback
func startDisplay(t *testing.T) (*Device, *loopback) {
	t.Helper()
	core.ClearEvents()
	core.SetDebugEnabled(false)

	cfg := core.ShaftConfig{
		StepPin:     18,
		PulseWidth:  800 * time.Microsecond,
		SettleDelay: 50 * time.Millisecond,
	}
	for i := 0; i < 2; i++ {
		cfg.Bits = append(cfg.Bits, core.BitConfig{
			Channel:      core.ADCChannelID(i),
			ClutchPin:    core.GPIOPin(19 + i),
			Calibration:  core.SensorCalibration{TriggerValue: 2600, UntriggerValue: 2400},
			StepsPerFlap: 58,
			HomeOffset:   3,
		})
	}
	rig, err := sim.NewRig(cfg, sim.Options{MagnetSteps: 12, Start: []uint32{3000, 3100}})
	if err != nil {
		t.Fatalf("NewRig failed: %v", err)
	}
	seq, err := core.NewMessageSequence(2, "OK")
	if err != nil {
		t.Fatalf("NewMessageSequence failed: %v", err)
	}
	shaft, err := core.NewShaft(cfg, rig.Hardware(), seq)
	if err != nil {
		t.Fatalf("NewShaft failed: %v", err)
	}

	l := &loopback{}
	diag := shaft.AttachDiagnostics(displaySide{l})
	core.SetDebugWriter(diag.WriteLine)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			shaft.Cycle()
			time.Sleep(50 * time.Microsecond)
		}
	}()

	dev := New(l)
	t.Cleanup(func() {
		dev.Close()
		close(stop)
		<-done
		core.SetDebugWriter(nil)
		core.SetDebugEnabled(false)
		core.ClearEvents()
	})
	return dev, l
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestEcho(t *testing.T) {
	dev, _ := startDisplay(t)

	got, err := dev.Echo(testContext(t), "hello 42")
	if err != nil {
		t.Fatalf("Echo failed: %v", err)
	}
	if got != "HELLO 42" {
		t.Errorf("Expected HELLO 42, got %q", got)
	}
}

func TestStatus(t *testing.T) {
	dev, _ := startDisplay(t)
	ctx := testContext(t)

	first, err := dev.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(first.Bits) != 2 {
		t.Fatalf("Expected 2 bits, got %d", len(first.Bits))
	}

	second, err := dev.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if second.Cycles <= first.Cycles {
		t.Errorf("Expected cycle count to grow, got %d then %d", first.Cycles, second.Cycles)
	}
}

func TestStatusShowsHoming(t *testing.T) {
	dev, _ := startDisplay(t)
	ctx := testContext(t)

	// Both drums start a few hundred steps before the magnet
	for {
		report, err := dev.Status(ctx)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if report.Bits[0].Homes > 0 && report.Bits[1].Homes > 0 {
			if report.Bits[0].State == uint8(core.BitUninitialized) {
				t.Errorf("Expected bit 0 to leave Uninitialized after homing")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDump(t *testing.T) {
	dev, _ := startDisplay(t)
	ctx := testContext(t)

	lines, err := dev.Dump(ctx)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if len(lines) < 3 {
		t.Fatalf("Expected header, count and end lines, got %v", lines)
	}
	if lines[0] != dumpBegin || lines[len(lines)-1] != dumpEnd {
		t.Errorf("Expected dump markers, got %v", lines)
	}
	if !strings.HasPrefix(lines[1], "[EVENT] Total events:") {
		t.Errorf("Expected event count line, got %q", lines[1])
	}
}

func TestMonitorSeesDebugLines(t *testing.T) {
	dev, _ := startDisplay(t)

	if err := dev.ToggleDebug(); err != nil {
		t.Fatalf("ToggleDebug failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var seen string
	err := dev.Monitor(ctx, func(line string) {
		if strings.HasPrefix(line, "[SHAFT]") && seen == "" {
			seen = line
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Monitor failed: %v", err)
	}
	if seen == "" {
		t.Errorf("Expected a [SHAFT] debug line")
	}
}

func TestClosedDeviceFailsRequests(t *testing.T) {
	dev, _ := startDisplay(t)
	if err := dev.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("Expected second Close to be a no-op, got %v", err)
	}
	if _, err := dev.Status(testContext(t)); err == nil {
		t.Errorf("Expected error after Close")
	}
}
