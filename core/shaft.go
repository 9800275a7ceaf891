package core

// Shared shaft coordinator
// One stepper turns every drum. Each cycle the coordinator samples all hall
// sensors, lets each bit decide whether it still needs to move, clutches the
// drums accordingly and issues exactly one step pulse. When no bit needs to
// move the display is showing a complete row: it holds it for the settle delay
// and loads the next one.

import (
	"errors"
	"time"

	"splitflap/protocol"
)

var (
	ErrNoBits           = errors.New("shaft has no bits configured")
	ErrBitCountMismatch = errors.New("message width does not match bit count")
)

// Default timing
const (
	DefaultPulseWidth  = 800 * time.Microsecond
	DefaultSettleDelay = 3 * time.Second
)

// ShaftConfig describes the whole display
type ShaftConfig struct {
	Bits        []BitConfig
	StepPin     GPIOPin       // Shared step line
	PulseWidth  time.Duration // Step pulse high time (0 = DefaultPulseWidth)
	SettleDelay time.Duration // Time a complete row is shown (0 = DefaultSettleDelay)
}

// Hardware bundles the drivers the shaft runs on. Nil GPIO and ADC fall back
// to the registered drivers, a nil Sleep to BlockingSleeper and a nil Step to
// a GPIO backend.
type Hardware struct {
	GPIO  GPIODriver
	ADC   ADCDriver
	Step  StepBackend
	Sleep Sleeper
}

// ShaftStats counts what the control loop has done since power-up
type ShaftStats struct {
	Cycles       uint32
	Pulses       uint32 // Step pulses issued without error
	Advances     uint32 // Message rows loaded
	SensorFaults uint32 // ADC reads that failed
	OutputFaults uint32 // Clutch or step writes that failed
}

// CycleResult summarizes one control cycle
type CycleResult struct {
	Engaged  int  // Bits clutched for this cycle's pulse
	Pulsed   bool // Step pulse completed without error
	Advanced bool // Next message row was loaded
}

// BitSnapshot is a read-only view of one bit
type BitSnapshot struct {
	State          BitState
	Sensor         SensorState
	StepsSinceHome uint32
	TargetSteps    uint32
	Remaining      uint32 // Steps left before settling
	Target         byte
	Showing        byte // Symbol currently in the window
	Homes          uint32
	Engaged        bool
	Sample         ADCValue // Last good sample
}

// Shaft owns the bit controllers and the shared step line
type Shaft struct {
	cfg  ShaftConfig
	hw   Hardware
	seq  *MessageSequence
	diag *Diagnostics

	bits    []*SplitFlapBit
	samples []ADCValue
	engaged []bool

	stats ShaftStats
}

// NewShaft creates the coordinator and brings up its outputs: every clutch is
// configured and released, every sensor channel configured and the step line
// left low. Errors here are bring-up failures; the control loop must not start.
func NewShaft(cfg ShaftConfig, hw Hardware, seq *MessageSequence) (*Shaft, error) {
	if len(cfg.Bits) == 0 {
		return nil, ErrNoBits
	}
	if seq == nil || seq.Width() != len(cfg.Bits) {
		width := 0
		if seq != nil {
			width = seq.Width()
		}
		return nil, withDetail(ErrBitCountMismatch, "bits="+itoa(len(cfg.Bits))+" width="+itoa(width))
	}
	if cfg.PulseWidth <= 0 {
		cfg.PulseWidth = DefaultPulseWidth
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}

	if hw.GPIO == nil {
		hw.GPIO = MustGPIO()
	}
	if hw.ADC == nil {
		hw.ADC = MustADC()
	}
	if hw.Sleep == nil {
		hw.Sleep = BlockingSleeper
	}
	if hw.Step == nil {
		hw.Step = NewGPIOStepBackend(hw.GPIO, hw.Sleep)
	}

	s := &Shaft{
		cfg:     cfg,
		hw:      hw,
		seq:     seq,
		bits:    make([]*SplitFlapBit, len(cfg.Bits)),
		samples: make([]ADCValue, len(cfg.Bits)),
		engaged: make([]bool, len(cfg.Bits)),
	}

	for i, bc := range cfg.Bits {
		bit, err := NewSplitFlapBit(bc.Calibration, bc.StepsPerFlap, bc.HomeOffset)
		if err != nil {
			return nil, withDetail(err, "bit "+itoa(i))
		}
		s.bits[i] = bit

		if err := hw.ADC.ConfigureChannel(bc.Channel); err != nil {
			return nil, withDetail(err, "bit "+itoa(i)+" sensor channel "+itoa(int(bc.Channel)))
		}
		if err := hw.GPIO.ConfigureOutput(bc.ClutchPin); err != nil {
			return nil, withDetail(err, "bit "+itoa(i)+" clutch pin "+utoa(uint32(bc.ClutchPin)))
		}
		if err := hw.GPIO.SetPin(bc.ClutchPin, false); err != nil {
			return nil, withDetail(err, "bit "+itoa(i)+" clutch pin "+utoa(uint32(bc.ClutchPin)))
		}
	}

	if err := hw.Step.Init(cfg.StepPin); err != nil {
		return nil, withDetail(err, hw.Step.GetName()+" step pin "+utoa(uint32(cfg.StepPin)))
	}
	return s, nil
}

// AttachDiagnostics services port once per cycle, answering status requests
// from this shaft
func (s *Shaft) AttachDiagnostics(port ByteChannel) *Diagnostics {
	s.diag = NewDiagnostics(port, s)
	return s.diag
}

// Cycle runs one control cycle
func (s *Shaft) Cycle() CycleResult {
	var res CycleResult
	s.stats.Cycles++
	clock := GetTime()

	// All sensor reads and decisions happen before the pulse
	for i, bit := range s.bits {
		ch := s.cfg.Bits[i].Channel
		sample, err := s.hw.ADC.ReadRaw(ch)
		if err != nil {
			s.stats.SensorFaults++
			RecordEvent(EvtSensorFault, uint8(i), clock, uint32(ch), s.stats.SensorFaults)
			sample = s.samples[i]
		} else {
			s.samples[i] = sample
		}

		before := bit.StepsSinceHome()
		homes := bit.Homes()
		wasSettled := bit.State() == BitSettled

		need := bit.Process(sample)

		if bit.Homes() != homes {
			RecordEvent(EvtHome, uint8(i), clock, before.Steps(), bit.Homes())
			DebugPrintln("[SHAFT] bit " + itoa(i) + " home, was at " + utoa(before.Steps()))
		}
		if !wasSettled && bit.State() == BitSettled {
			RecordEvent(EvtSettled, uint8(i), clock, bit.TargetSteps().Steps(), uint32(bit.Target()))
		}

		s.engaged[i] = need
		if need {
			res.Engaged++
		}
	}

	for i, on := range s.engaged {
		pin := s.cfg.Bits[i].ClutchPin
		if err := s.hw.GPIO.SetPin(pin, on); err != nil {
			s.outputFault(uint8(i), clock, pin)
		}
	}

	// The pulse is unconditional; only clutched drums move
	if err := s.hw.Step.Pulse(s.cfg.PulseWidth); err != nil {
		s.outputFault(0, clock, s.cfg.StepPin)
	} else {
		s.stats.Pulses++
		res.Pulsed = true
	}

	if res.Engaged == 0 {
		s.hw.Sleep.Sleep(s.cfg.SettleDelay)
		s.advance(clock)
		res.Advanced = true
	}

	if s.diag != nil {
		s.diag.Poll()
	}
	return res
}

// Run cycles forever
func (s *Shaft) Run() {
	for {
		s.Cycle()
	}
}

func (s *Shaft) outputFault(bit uint8, clock uint32, pin GPIOPin) {
	s.stats.OutputFaults++
	RecordEvent(EvtOutputFault, bit, clock, uint32(pin), s.stats.OutputFaults)
}

// advance loads the next row and retargets every bit
func (s *Shaft) advance(clock uint32) {
	row := s.seq.Position()
	text := s.seq.Next()
	for i, bit := range s.bits {
		bit.SetTargetCharacter(text[i])
	}
	s.stats.Advances++
	RecordEvent(EvtAdvance, 0, clock, uint32(row), s.stats.Advances)
	if IsDebugEnabled() {
		DebugPrintln("[SHAFT] row " + itoa(row) + " \"" + displayText(text) + "\"")
	}
}

// displayText renders a row for logs, showing glyph flaps as <hex>
func displayText(row []byte) string {
	out := ""
	for _, b := range row {
		if IsPrintable(b) {
			out += string(rune(b))
		} else {
			out += "<" + hexByte(b) + ">"
		}
	}
	return out
}

// Stats returns the loop counters
func (s *Shaft) Stats() ShaftStats {
	return s.stats
}

// Bits returns the bit controllers
func (s *Shaft) Bits() []*SplitFlapBit {
	return s.bits
}

// Config returns the configuration in use, with defaults applied
func (s *Shaft) Config() ShaftConfig {
	return s.cfg
}

// Sequence returns the message sequence
func (s *Shaft) Sequence() *MessageSequence {
	return s.seq
}

// Snapshot returns the state of every bit
func (s *Shaft) Snapshot() []BitSnapshot {
	out := make([]BitSnapshot, len(s.bits))
	for i, bit := range s.bits {
		out[i] = BitSnapshot{
			State:          bit.State(),
			Sensor:         bit.Sensor(),
			StepsSinceHome: bit.StepsSinceHome().Steps(),
			TargetSteps:    bit.TargetSteps().Steps(),
			Remaining:      uint32(bit.Remaining()),
			Target:         bit.Target(),
			Showing:        SymbolAt(bit.Showing()),
			Homes:          bit.Homes(),
			Engaged:        s.engaged[i],
			Sample:         s.samples[i],
		}
	}
	return out
}

// Status implements StatusSource
func (s *Shaft) Status() protocol.StatusReport {
	r := protocol.StatusReport{
		Clock:        GetTime(),
		Cycles:       s.stats.Cycles,
		Pulses:       s.stats.Pulses,
		Advances:     s.stats.Advances,
		SensorFaults: s.stats.SensorFaults,
		OutputFaults: s.stats.OutputFaults,
		Row:          uint32(s.seq.Position()),
		Bits:         make([]protocol.BitStatus, len(s.bits)),
	}
	for i, b := range s.Snapshot() {
		r.Bits[i] = protocol.BitStatus{
			State:          uint8(b.State),
			Sensor:         uint8(b.Sensor),
			StepsSinceHome: b.StepsSinceHome,
			TargetSteps:    b.TargetSteps,
			Target:         b.Target,
			Homes:          b.Homes,
		}
	}
	return r
}
