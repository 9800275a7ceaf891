//go:build rp2040

package pio

// PIO step pulse backend using tinygo-org/pio
// The state machine times the high phase of the pulse so clutch changes can
// never land inside it, and reports completion through the RX FIFO.

import (
	"errors"
	"machine"
	"time"

	"splitflap/core"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

var ErrPulseTimeout = errors.New("PIO step pulse did not complete")

// Program flow:
//  1. Pull the high time in microseconds minus one (16 bits)
//  2. Raise the step pin
//  3. Count the high time down, one microsecond per loop
//  4. Drop the step pin and push a completion word
func buildPulseProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),   // 1: out x, 16 (high time)
		asm.Set(rp2pio.SetDestPins, 1).Encode(), // 2: set pins, 1
		// hold:
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(), // 3: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 0).Encode(),  // 4: set pins, 0
		asm.Push(false, true).Encode(),           // 5: push block
		// .wrap
	}
}

const pulsePIOOrigin = 0 // Load at offset 0 for correct jump addresses

// 125MHz system clock / 125 = one PIO cycle per microsecond
const pulseClkDiv = 125

// PulseBackend implements core.StepBackend on a PIO state machine
type PulseBackend struct {
	pio     *rp2pio.PIO
	sm      rp2pio.StateMachine
	stepPin machine.Pin
	offset  uint8
	ready   bool
}

// NewPulseBackend creates a PIO step backend
// pioNum: 0 for PIO0, 1 for PIO1
// smNum: 0-3 for state machine number
func NewPulseBackend(pioNum, smNum uint8) *PulseBackend {
	var pioHW *rp2pio.PIO
	if pioNum == 0 {
		pioHW = rp2pio.PIO0
	} else {
		pioHW = rp2pio.PIO1
	}

	return &PulseBackend{
		pio: pioHW,
		sm:  pioHW.StateMachine(smNum),
	}
}

// Init loads the program and leaves the step pin low
func (b *PulseBackend) Init(stepPin core.GPIOPin) error {
	b.stepPin = machine.Pin(stepPin)

	// Claim the state machine first
	b.sm.TryClaim()

	program := buildPulseProgram()
	offset, err := b.pio.AddProgram(program, pulsePIOOrigin)
	if err != nil {
		return err
	}
	b.offset = offset

	b.stepPin.Configure(machine.PinConfig{Mode: b.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(b.stepPin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(pulseClkDiv, 0)

	b.sm.Init(offset, cfg)

	// Pin direction must be set after Init
	b.sm.SetPindirsConsecutive(b.stepPin, 1, true)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)

	b.sm.SetEnabled(true)
	b.ready = true
	return nil
}

// Pulse queues one pulse and waits for the state machine to finish it
func (b *PulseBackend) Pulse(width time.Duration) error {
	if !b.ready {
		return errors.New("step backend not initialized")
	}
	us := width.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > 0xFFFF {
		us = 0xFFFF
	}

	// Stale completions from an abandoned pulse
	for !b.sm.IsRxFIFOEmpty() {
		b.sm.RxGet()
	}

	for b.sm.IsTxFIFOFull() {
		// Busy wait - the program never holds a word for long
	}
	b.sm.TxPut(uint32(us - 1))

	deadline := time.Now().Add(2*width + time.Millisecond)
	for b.sm.IsRxFIFOEmpty() {
		if time.Now().After(deadline) {
			b.reset()
			return ErrPulseTimeout
		}
	}
	b.sm.RxGet()
	return nil
}

// reset restarts the state machine with the step pin low
func (b *PulseBackend) reset() {
	b.sm.SetEnabled(false)
	b.sm.ClearFIFOs()
	b.sm.Restart()
	b.sm.Jmp(b.offset, rp2pio.JmpAlways)
	b.sm.SetPinsConsecutive(b.stepPin, 1, false)
	b.sm.SetEnabled(true)
}

// GetName returns the backend name
func (b *PulseBackend) GetName() string {
	return "PIO"
}
