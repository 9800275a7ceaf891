package config

import (
	"fmt"

	"splitflap/core"
	"splitflap/protocol"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	d := &cfg.Display

	if len(d.Bits) == 0 {
		return fmt.Errorf("display.bits: at least one bit is required")
	}
	if len(d.Bits) > protocol.MaxStatusBits {
		return fmt.Errorf("display.bits: %d bits, at most %d fit a status report", len(d.Bits), protocol.MaxStatusBits)
	}
	if d.PulseWidthUs <= 0 {
		return fmt.Errorf("display.pulse_width_us must be positive, got %d", d.PulseWidthUs)
	}
	if d.SettleMs < 0 {
		return fmt.Errorf("display.settle_ms must not be negative, got %d", d.SettleMs)
	}

	step, err := core.LookupPin(d.StepPin)
	if err != nil {
		return fmt.Errorf("display.step_pin: %w", err)
	}

	// Every output pin has exactly one owner
	pinOwner := map[core.GPIOPin]string{step: "display.step_pin"}
	channelOwner := make(map[uint8]int)

	for i, b := range d.Bits {
		field := fmt.Sprintf("display.bits[%d]", i)

		pin, err := core.LookupPin(b.ClutchPin)
		if err != nil {
			return fmt.Errorf("%s.clutch_pin: %w", field, err)
		}
		if prev, exists := pinOwner[pin]; exists {
			return fmt.Errorf("%s.clutch_pin: gpio%d already used by %s", field, pin, prev)
		}
		pinOwner[pin] = field + ".clutch_pin"

		if prev, exists := channelOwner[b.Channel]; exists {
			return fmt.Errorf("%s.channel: channel %d already used by display.bits[%d]", field, b.Channel, prev)
		}
		channelOwner[b.Channel] = i

		cal := d.Calibration
		if b.Calibration != nil {
			cal = *b.Calibration
		}
		if err := validateCalibration(cal); err != nil {
			return fmt.Errorf("%s.calibration: %w", field, err)
		}

		stepsPerFlap := b.StepsPerFlap
		if stepsPerFlap == 0 {
			stepsPerFlap = d.StepsPerFlap
		}
		if stepsPerFlap == 0 {
			return fmt.Errorf("%s.steps_per_flap: %w", field, core.ErrInvalidGeometry)
		}
	}

	switch cfg.Serial.Driver {
	case "", "tarm", "bugst":
	default:
		return fmt.Errorf("serial.driver: unknown driver %q (want tarm or bugst)", cfg.Serial.Driver)
	}
	if cfg.Sim.Speed < 0 {
		return fmt.Errorf("sim.speed must not be negative, got %g", cfg.Sim.Speed)
	}

	if len(cfg.Messages) == 0 {
		return fmt.Errorf("messages: %w", core.ErrEmptySequence)
	}
	for i, m := range cfg.Messages {
		if len(m) > len(d.Bits) {
			return fmt.Errorf("messages[%d] %q: %w (%d > %d)", i, m, core.ErrRowWidth, len(m), len(d.Bits))
		}
	}
	return nil
}

func validateCalibration(cal CalibrationConfig) error {
	if cal.Trigger > uint16(core.ADCMax) {
		return fmt.Errorf("trigger %d above ADC range %d", cal.Trigger, core.ADCMax)
	}
	sc := core.SensorCalibration{
		TriggerValue:   core.ADCValue(cal.Trigger),
		UntriggerValue: core.ADCValue(cal.Untrigger),
	}
	return sc.Validate()
}

// Warnings lists message symbols that are not on the drum. They display as
// blanks, so they are not errors.
func Warnings(cfg *Config) []string {
	var out []string
	for i, m := range cfg.Messages {
		for col := 0; col < len(m); col++ {
			b := m[col]
			if b >= 'a' && b <= 'z' {
				b -= 'a' - 'A'
			}
			if b != ' ' && core.PositionOf(b) == 0 {
				out = append(out, fmt.Sprintf("messages[%d] column %d: %q is not on the drum, shows blank", i, col, m[col]))
			}
		}
	}
	return out
}
