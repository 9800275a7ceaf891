// Package sim models the display mechanics on the host: drums on clutches, a
// shared step line and hall sensors, behind the same driver interfaces the
// firmware uses on the board.
package sim

import (
	"math/rand"

	"splitflap/core"
)

// Sensor levels in ADC counts
const (
	LevelHigh core.ADCValue = 3300 // magnet over the sensor
	LevelEdge core.ADCValue = 2500 // magnet partly over the sensor
	LevelLow  core.ADCValue = 800  // no magnet
)

// Drum is one physical drum. Position 0 is the trip point, the first step
// with the magnet fully over the sensor.
type Drum struct {
	geom        core.Geometry
	homeOffset  core.StepDelta
	magnetSteps uint32

	position core.StepPosition
	clutched bool
	steps    uint64 // steps actually taken
}

// NewDrum creates a drum at a physical position
func NewDrum(stepsPerFlap, homeOffset core.StepDelta, magnetSteps uint32, start uint32) (*Drum, error) {
	geom, err := core.NewGeometry(stepsPerFlap)
	if err != nil {
		return nil, err
	}
	if magnetSteps == 0 {
		magnetSteps = 1
	}
	return &Drum{
		geom:        geom,
		homeOffset:  homeOffset,
		magnetSteps: magnetSteps,
		position:    geom.Wrap(core.StepDelta(start)),
	}, nil
}

// step advances the drum if it is clutched
func (d *Drum) step() {
	if !d.clutched {
		return
	}
	d.position = d.geom.Advance(d.position, 1)
	d.steps++
}

// Nudge turns the drum by hand, without the firmware seeing any pulse
func (d *Drum) Nudge(steps core.StepDelta) {
	d.position = d.geom.Advance(d.position, steps)
}

// Sample returns the hall sensor reading at the current position.
// noise is the peak deviation, drawn from rng.
func (d *Drum) Sample(rng *rand.Rand, noise uint16) core.ADCValue {
	level := d.level()
	if noise == 0 || rng == nil {
		return level
	}
	delta := rng.Intn(2*int(noise)+1) - int(noise)
	v := int(level) + delta
	if v < 0 {
		v = 0
	}
	if v > int(core.ADCMax) {
		v = int(core.ADCMax)
	}
	return core.ADCValue(v)
}

// level is the noiseless reading: high over the magnet, a partial reading
// on the step either side of it, low elsewhere
func (d *Drum) level() core.ADCValue {
	into := d.geom.Distance(d.geom.Home(), d.position)
	switch {
	case uint32(into) < d.magnetSteps:
		return LevelHigh
	case uint32(into) == d.magnetSteps, into == d.geom.TotalSteps()-1:
		return LevelEdge
	default:
		return LevelLow
	}
}

// Position returns the physical position
func (d *Drum) Position() core.StepPosition {
	return d.position
}

// Clutched reports whether the drum is coupled to the shaft
func (d *Drum) Clutched() bool {
	return d.clutched
}

// Steps returns how many steps the drum has taken
func (d *Drum) Steps() uint64 {
	return d.steps
}

// Showing returns the symbol in the window
func (d *Drum) Showing() byte {
	return core.SymbolAt(d.geom.OrdinalAt(d.position, d.homeOffset))
}
