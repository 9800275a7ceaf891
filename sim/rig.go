package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"splitflap/core"
)

var (
	ErrUnknownPin     = errors.New("pin not wired in the rig")
	ErrUnknownChannel = errors.New("ADC channel not wired in the rig")
	ErrSensorFault    = errors.New("injected sensor fault")
)

// Options tune the simulated mechanics
type Options struct {
	Noise       uint16   // Peak sensor noise in counts
	MagnetSteps uint32   // Steps the magnet covers the sensor
	Seed        int64    // Seed for noise and random start positions
	Start       []uint32 // Start positions per bit; nil = random
}

// Rig wires drums to the driver interfaces: clutch pins and the step line
// through GPIODriver, hall sensors through ADCDriver, and a virtual clock
// through Sleeper.
type Rig struct {
	drums    []*Drum
	clutches map[core.GPIOPin]*Drum
	channels map[core.ADCChannelID]*Drum
	stepPin  core.GPIOPin

	pins       map[core.GPIOPin]bool
	configured map[core.GPIOPin]bool
	failing    map[core.ADCChannelID]bool

	rng    *rand.Rand
	noise  uint16
	now    time.Duration
	pulses uint64
}

// NewRig builds one drum per configured bit
func NewRig(cfg core.ShaftConfig, opts Options) (*Rig, error) {
	r := &Rig{
		clutches:   make(map[core.GPIOPin]*Drum),
		channels:   make(map[core.ADCChannelID]*Drum),
		stepPin:    cfg.StepPin,
		pins:       make(map[core.GPIOPin]bool),
		configured: make(map[core.GPIOPin]bool),
		failing:    make(map[core.ADCChannelID]bool),
		rng:        rand.New(rand.NewSource(opts.Seed)),
		noise:      opts.Noise,
	}

	for i, bc := range cfg.Bits {
		geom, err := core.NewGeometry(bc.StepsPerFlap)
		if err != nil {
			return nil, fmt.Errorf("bit %d: %w", i, err)
		}
		var start uint32
		if i < len(opts.Start) {
			start = opts.Start[i]
		} else {
			start = uint32(r.rng.Int63n(int64(geom.TotalSteps())))
		}

		drum, err := NewDrum(bc.StepsPerFlap, bc.HomeOffset, opts.MagnetSteps, start)
		if err != nil {
			return nil, fmt.Errorf("bit %d: %w", i, err)
		}
		if _, dup := r.clutches[bc.ClutchPin]; dup || bc.ClutchPin == cfg.StepPin {
			return nil, fmt.Errorf("bit %d: clutch pin %d wired twice", i, bc.ClutchPin)
		}
		r.drums = append(r.drums, drum)
		r.clutches[bc.ClutchPin] = drum
		r.channels[bc.Channel] = drum
	}
	return r, nil
}

// Hardware returns the rig as shaft hardware. The step line is driven by the
// GPIO step backend through the rig's own GPIO.
func (r *Rig) Hardware() core.Hardware {
	return core.Hardware{GPIO: r, ADC: r, Sleep: r}
}

// ---- GPIODriver ----

func (r *Rig) ConfigureOutput(pin core.GPIOPin) error {
	if pin != r.stepPin && r.clutches[pin] == nil {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	r.configured[pin] = true
	return nil
}

func (r *Rig) SetPin(pin core.GPIOPin, value bool) error {
	if !r.configured[pin] {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	prev := r.pins[pin]
	r.pins[pin] = value

	if pin == r.stepPin {
		if value && !prev {
			r.pulse()
		}
		return nil
	}
	r.clutches[pin].clutched = value
	return nil
}

func (r *Rig) GetPin(pin core.GPIOPin) (bool, error) {
	return r.pins[pin], nil
}

// pulse moves every clutched drum one step on the rising edge
func (r *Rig) pulse() {
	r.pulses++
	for _, d := range r.drums {
		d.step()
	}
}

// ---- ADCDriver ----

func (r *Rig) Init(cfg core.ADCConfig) error {
	return nil
}

func (r *Rig) ConfigureChannel(ch core.ADCChannelID) error {
	if r.channels[ch] == nil {
		return fmt.Errorf("%w: %d", ErrUnknownChannel, ch)
	}
	return nil
}

func (r *Rig) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	d := r.channels[ch]
	if d == nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownChannel, ch)
	}
	if r.failing[ch] {
		return 0, ErrSensorFault
	}
	return d.Sample(r.rng, r.noise), nil
}

// ---- Sleeper ----

// Sleep advances the virtual clock and mirrors it into the core timer
func (r *Rig) Sleep(d time.Duration) {
	r.now += d
	core.SetTime(uint32(r.now / time.Microsecond))
}

// ---- Inspection and fault injection ----

// Now returns the virtual time
func (r *Rig) Now() time.Duration {
	return r.now
}

// Pulses returns the rising edges seen on the step line
func (r *Rig) Pulses() uint64 {
	return r.pulses
}

// Drums returns the drums in bit order
func (r *Rig) Drums() []*Drum {
	return r.drums
}

// Showing returns the symbols currently in the windows
func (r *Rig) Showing() []byte {
	out := make([]byte, len(r.drums))
	for i, d := range r.drums {
		out[i] = d.Showing()
	}
	return out
}

// FailChannel makes reads on a channel fail until cleared
func (r *Rig) FailChannel(ch core.ADCChannelID, fail bool) {
	r.failing[ch] = fail
}

// SetNoise changes the sensor noise
func (r *Rig) SetNoise(noise uint16) {
	r.noise = noise
}
