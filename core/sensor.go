// Hall sensor debouncing for drum home detection
// The magnet on each drum pulls the sensor output up once per revolution;
// two thresholds with a dead-band between them keep the state from chattering
// while the magnet passes.
package core

import "errors"

var ErrInvalidCalibration = errors.New("trigger value must be above untrigger value")

// SensorState is the debounced state of a home sensor
type SensorState uint8

const (
	SensorUntriggered SensorState = iota
	SensorTriggered
)

func (s SensorState) String() string {
	switch s {
	case SensorTriggered:
		return "Triggered"
	default:
		return "Untriggered"
	}
}

// SensorCalibration holds the hysteresis thresholds for one hall sensor
type SensorCalibration struct {
	TriggerValue   ADCValue // Samples at or above this trigger the sensor
	UntriggerValue ADCValue // Samples at or below this release it
}

// Validate checks that the thresholds leave a dead-band between them
func (c SensorCalibration) Validate() error {
	if c.TriggerValue <= c.UntriggerValue {
		return withDetail(ErrInvalidCalibration, "trigger="+utoa(uint32(c.TriggerValue))+
			" untrigger="+utoa(uint32(c.UntriggerValue)))
	}
	return nil
}

// Next returns the sensor state after a sample.
// Samples strictly inside the dead-band keep the previous state.
func (c SensorCalibration) Next(prev SensorState, sample ADCValue) SensorState {
	if sample >= c.TriggerValue {
		return SensorTriggered
	}
	if sample <= c.UntriggerValue {
		return SensorUntriggered
	}
	return prev
}

// Debouncer tracks one sensor's state across samples
type Debouncer struct {
	cal   SensorCalibration
	state SensorState
}

// NewDebouncer creates a debouncer that starts Untriggered
func NewDebouncer(cal SensorCalibration) (*Debouncer, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &Debouncer{cal: cal, state: SensorUntriggered}, nil
}

// Update feeds a sample and reports whether it produced the
// Untriggered -> Triggered edge (the home mark).
func (d *Debouncer) Update(sample ADCValue) (home bool) {
	next := d.cal.Next(d.state, sample)
	home = d.state == SensorUntriggered && next == SensorTriggered
	d.state = next
	return home
}

// State returns the current debounced state
func (d *Debouncer) State() SensorState {
	return d.state
}
