package core

// Split-flap bit controller
// One per display cell. Each cycle it is fed a fresh hall sample and answers
// whether its drum must stay clutched to the shaft for the next step pulse.

// BitState is the homing/positioning state of one drum
type BitState uint8

const (
	BitUninitialized BitState = iota // position unknown, turning until home is seen
	BitSeeking                       // homed, travelling towards the target
	BitSettled                       // at the target, clutch released
)

func (s BitState) String() string {
	switch s {
	case BitUninitialized:
		return "Uninitialized"
	case BitSeeking:
		return "Seeking"
	case BitSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}

// BitConfig is the per-cell configuration
type BitConfig struct {
	Channel      ADCChannelID      // ADC channel of the hall sensor
	ClutchPin    GPIOPin           // Clutch enable output (high = engaged)
	Calibration  SensorCalibration // Hysteresis thresholds
	StepsPerFlap StepDelta         // Motor steps per flap
	HomeOffset   StepDelta         // Steps from the trip point to the blank flap
}

// SplitFlapBit tracks one drum's position by counting steps since the last
// home mark.
type SplitFlapBit struct {
	geom       Geometry
	homeOffset StepDelta
	sensor     Debouncer
	state      BitState

	stepsSinceHome StepPosition
	targetSteps    StepPosition
	target         byte   // last requested symbol
	homes          uint32 // home marks seen
}

// NewSplitFlapBit creates a bit controller. It starts Uninitialized with the
// sensor Untriggered.
func NewSplitFlapBit(cal SensorCalibration, stepsPerFlap, homeOffset StepDelta) (*SplitFlapBit, error) {
	geom, err := NewGeometry(stepsPerFlap)
	if err != nil {
		return nil, err
	}
	deb, err := NewDebouncer(cal)
	if err != nil {
		return nil, err
	}
	return &SplitFlapBit{
		geom:       geom,
		homeOffset: homeOffset % geom.TotalSteps(),
		sensor:     *deb,
		state:      BitUninitialized,
		target:     Symbols[0],
	}, nil
}

// Process consumes one sample and reports whether the drum needs a step.
//
// The drum is on the trip step when the home edge is seen, so the count
// restarts at zero and the same call goes on to compare against the target.
// Holding the sensor triggered does not re-home; only a new edge does.
func (b *SplitFlapBit) Process(sample ADCValue) bool {
	if b.sensor.Update(sample) {
		b.homes++
		b.stepsSinceHome = b.geom.Home()
		if b.state == BitUninitialized {
			b.targetSteps = b.geom.Wrap(b.homeOffset)
			b.state = BitSeeking
		}
	}

	if b.state == BitUninitialized {
		return true
	}

	if b.stepsSinceHome == b.targetSteps {
		b.state = BitSettled
		return false
	}

	b.state = BitSeeking
	b.stepsSinceHome = b.geom.Advance(b.stepsSinceHome, 1)
	return true
}

// SetTargetCharacter aims the drum at a symbol. Unknown symbols target the
// blank flap. The new target takes effect on the next Process call.
func (b *SplitFlapBit) SetTargetCharacter(symbol byte) {
	b.target = symbol
	b.targetSteps = b.geom.SymbolOffset(b.homeOffset, PositionOf(symbol))
}

// State returns the controller state
func (b *SplitFlapBit) State() BitState {
	return b.state
}

// Sensor returns the debounced home sensor state
func (b *SplitFlapBit) Sensor() SensorState {
	return b.sensor.State()
}

// StepsSinceHome returns the tracked position
func (b *SplitFlapBit) StepsSinceHome() StepPosition {
	return b.stepsSinceHome
}

// TargetSteps returns the position the drum is heading for
func (b *SplitFlapBit) TargetSteps() StepPosition {
	return b.targetSteps
}

// Target returns the last symbol passed to SetTargetCharacter
func (b *SplitFlapBit) Target() byte {
	return b.target
}

// Homes returns the number of home marks seen since power-up
func (b *SplitFlapBit) Homes() uint32 {
	return b.homes
}

// Remaining returns the steps left before the drum settles. It is zero
// when settled and a full revolution while the drum has never been homed.
func (b *SplitFlapBit) Remaining() StepDelta {
	if b.state == BitUninitialized {
		return b.geom.TotalSteps()
	}
	return b.geom.Distance(b.stepsSinceHome, b.targetSteps)
}

// Showing returns the flap ordinal currently in the window, or 0 before homing.
func (b *SplitFlapBit) Showing() uint32 {
	if b.state == BitUninitialized {
		return 0
	}
	return b.geom.OrdinalAt(b.stepsSinceHome, b.homeOffset)
}

// Geometry returns the drum geometry
func (b *SplitFlapBit) Geometry() Geometry {
	return b.geom
}
