//go:build rp2040 || rp2350

package main

import (
	"time"

	"splitflap/core"
)

// Board wiring
const (
	stepPin      core.GPIOPin = 18 // Shared stepper STEP input
	firstClutch  core.GPIOPin = 19 // Clutch solenoids on consecutive pins
	stepsPerFlap              = 58
	homeOffset                = 3
)

var boardCalibration = core.SensorCalibration{TriggerValue: 2600, UntriggerValue: 2400}

// Rows shown in turn; shorter rows are padded with blanks
var boardRows = []string{"HI", "GO", "123"}

// boardConfig builds one cell per hall sensor channel
func boardConfig() core.ShaftConfig {
	cfg := core.ShaftConfig{
		StepPin:     stepPin,
		PulseWidth:  core.DefaultPulseWidth,
		SettleDelay: 3 * time.Second,
	}
	for i, ch := range sensorChannels {
		cfg.Bits = append(cfg.Bits, core.BitConfig{
			Channel:      ch,
			ClutchPin:    firstClutch + core.GPIOPin(i),
			Calibration:  boardCalibration,
			StepsPerFlap: stepsPerFlap,
			HomeOffset:   homeOffset,
		})
	}
	return cfg
}
