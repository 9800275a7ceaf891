package core

// Drum position arithmetic
// Positions are counted in motor steps from the home trip point and are
// always kept inside one revolution, so a drum can turn forever without the
// counter overflowing and arrival is an equality test.

import "errors"

var ErrInvalidGeometry = errors.New("steps per flap must be non-zero")

// StepDelta is a count of motor steps (a distance, not a position)
type StepDelta uint32

// Times scales a delta by a symbol ordinal.
func (d StepDelta) Times(ordinal uint32) StepDelta {
	return d * StepDelta(ordinal)
}

// StepPosition is an absolute drum position in [0, TotalSteps).
// Only a Geometry can build one, which keeps every value wrapped.
type StepPosition struct {
	steps uint32
}

// Steps returns the raw step count since home
func (p StepPosition) Steps() uint32 {
	return p.steps
}

// Geometry describes one drum: steps per flap times the number of flaps.
type Geometry struct {
	StepsPerFlap StepDelta
	Flaps        uint32
}

// NewGeometry returns the geometry of a drum carrying the full symbol table.
func NewGeometry(stepsPerFlap StepDelta) (Geometry, error) {
	if stepsPerFlap == 0 {
		return Geometry{}, ErrInvalidGeometry
	}
	return Geometry{StepsPerFlap: stepsPerFlap, Flaps: SymbolCount}, nil
}

// TotalSteps is the step count of one full revolution
func (g Geometry) TotalSteps() StepDelta {
	return g.StepsPerFlap * StepDelta(g.Flaps)
}

// Home returns position zero, the home trip point.
func (g Geometry) Home() StepPosition {
	return StepPosition{}
}

// Wrap reduces a raw step count to a position.
func (g Geometry) Wrap(d StepDelta) StepPosition {
	return StepPosition{steps: uint32(d % g.TotalSteps())}
}

// Advance moves a position forward by d steps, wrapping at TotalSteps.
func (g Geometry) Advance(p StepPosition, d StepDelta) StepPosition {
	total := uint64(g.TotalSteps())
	return StepPosition{steps: uint32((uint64(p.steps) + uint64(d)) % total)}
}

// SymbolOffset returns the position of a flap ordinal once the drum has
// travelled homeOffset steps past the trip point.
func (g Geometry) SymbolOffset(homeOffset StepDelta, ordinal uint32) StepPosition {
	return g.Advance(g.Wrap(homeOffset), g.StepsPerFlap.Times(ordinal%g.Flaps))
}

// Distance returns how many forward steps take the drum from one position to
// another. Drums only turn forward.
func (g Geometry) Distance(from, to StepPosition) StepDelta {
	if to.steps >= from.steps {
		return StepDelta(to.steps - from.steps)
	}
	return g.TotalSteps() - StepDelta(from.steps-to.steps)
}

// OrdinalAt returns the flap showing in the window at a position, rounding
// down while a flap is still falling.
func (g Geometry) OrdinalAt(p StepPosition, homeOffset StepDelta) uint32 {
	rel := g.Distance(g.Wrap(homeOffset), p)
	return uint32(rel/g.StepsPerFlap) % g.Flaps
}
