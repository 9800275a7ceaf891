//go:build rp2040

package main

import (
	"splitflap/core"
	piostepper "splitflap/targets/pio"
)

const (
	chipName  = "rp2040"
	timerBase = 0x40054000
)

// newStepBackend times step pulses in PIO0 state machine 0
func newStepBackend() core.StepBackend {
	return piostepper.NewPulseBackend(0, 0)
}
