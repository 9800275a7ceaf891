//go:build rp2350

package main

import "splitflap/core"

const (
	chipName  = "rp2350"
	timerBase = 0x400B0000 // TIMER0
)

// newStepBackend returns nil so the shaft pulses the step pin through GPIO
func newStepBackend() core.StepBackend {
	return nil
}
