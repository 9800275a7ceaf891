// Package config reads the display description used by the host tools and
// the simulator
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"splitflap/core"
)

// Config is the top-level YAML document
type Config struct {
	Display  DisplayConfig `yaml:"display"`
	Messages []string      `yaml:"messages"`
	Serial   SerialConfig  `yaml:"serial"`
	Sim      SimConfig     `yaml:"sim"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	StepPin      string            `yaml:"step_pin"`
	PulseWidthUs int               `yaml:"pulse_width_us"`
	SettleMs     int               `yaml:"settle_ms"`
	StepsPerFlap uint32            `yaml:"steps_per_flap"` // default for every bit
	Calibration  CalibrationConfig `yaml:"calibration"`    // default for every bit
	Bits         []BitConfig       `yaml:"bits"`
}

type CalibrationConfig struct {
	Trigger   uint16 `yaml:"trigger"`
	Untrigger uint16 `yaml:"untrigger"`
}

// BitConfig describes one cell. Zero values inherit the display defaults.
type BitConfig struct {
	ClutchPin    string             `yaml:"clutch_pin"`
	Channel      uint8              `yaml:"channel"`
	HomeOffset   uint32             `yaml:"home_offset"`
	StepsPerFlap uint32             `yaml:"steps_per_flap"`
	Calibration  *CalibrationConfig `yaml:"calibration"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Port      string `yaml:"port"` // empty = first USB serial port found
	Baud      int    `yaml:"baud"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Driver    string `yaml:"driver"` // "tarm" or "bugst"
}

// ---- SIM ----

type SimConfig struct {
	Noise       uint16  `yaml:"noise"`        // peak sample noise in counts
	MagnetSteps uint32  `yaml:"magnet_steps"` // width of the magnet window
	Seed        int64   `yaml:"seed"`
	Speed       float64 `yaml:"speed"` // simulated seconds per wall second
}

// Defaults
const (
	DefaultStepPin      = "gpio18"
	DefaultPulseWidthUs = 800
	DefaultSettleMs     = 3000
	DefaultStepsPerFlap = 58
	DefaultTrigger      = 2600
	DefaultUntrigger    = 2400
	DefaultBaud         = 115200
	DefaultTimeoutMs    = 2000
	DefaultMagnetSteps  = 12
	DefaultSpeed        = 1.0
	DefaultDriver       = "tarm"
)

// Load reads and parses a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills defaults and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	d := &cfg.Display
	if d.StepPin == "" {
		d.StepPin = DefaultStepPin
	}
	if d.PulseWidthUs == 0 {
		d.PulseWidthUs = DefaultPulseWidthUs
	}
	if d.SettleMs == 0 {
		d.SettleMs = DefaultSettleMs
	}
	if d.StepsPerFlap == 0 {
		d.StepsPerFlap = DefaultStepsPerFlap
	}
	if d.Calibration.Trigger == 0 && d.Calibration.Untrigger == 0 {
		d.Calibration = CalibrationConfig{Trigger: DefaultTrigger, Untrigger: DefaultUntrigger}
	}

	// Apply display defaults to each bit
	for i := range d.Bits {
		b := &d.Bits[i]
		if b.StepsPerFlap == 0 {
			b.StepsPerFlap = d.StepsPerFlap
		}
		if b.Calibration == nil {
			cal := d.Calibration
			b.Calibration = &cal
		}
	}

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = DefaultBaud
	}
	if cfg.Serial.TimeoutMs == 0 {
		cfg.Serial.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Sim.MagnetSteps == 0 {
		cfg.Sim.MagnetSteps = DefaultMagnetSteps
	}
	if cfg.Serial.Driver == "" {
		cfg.Serial.Driver = DefaultDriver
	}
	if cfg.Sim.Speed == 0 {
		cfg.Sim.Speed = DefaultSpeed
	}
}

// ShaftConfig converts the display section for the coordinator
func (c *Config) ShaftConfig() (core.ShaftConfig, error) {
	step, err := core.LookupPin(c.Display.StepPin)
	if err != nil {
		return core.ShaftConfig{}, fmt.Errorf("display.step_pin: %w", err)
	}
	out := core.ShaftConfig{
		StepPin:     step,
		PulseWidth:  time.Duration(c.Display.PulseWidthUs) * time.Microsecond,
		SettleDelay: time.Duration(c.Display.SettleMs) * time.Millisecond,
		Bits:        make([]core.BitConfig, len(c.Display.Bits)),
	}
	for i, b := range c.Display.Bits {
		pin, err := core.LookupPin(b.ClutchPin)
		if err != nil {
			return core.ShaftConfig{}, fmt.Errorf("display.bits[%d].clutch_pin: %w", i, err)
		}
		cal := c.Display.Calibration
		if b.Calibration != nil {
			cal = *b.Calibration
		}
		stepsPerFlap := b.StepsPerFlap
		if stepsPerFlap == 0 {
			stepsPerFlap = c.Display.StepsPerFlap
		}
		out.Bits[i] = core.BitConfig{
			Channel:   core.ADCChannelID(b.Channel),
			ClutchPin: pin,
			Calibration: core.SensorCalibration{
				TriggerValue:   core.ADCValue(cal.Trigger),
				UntriggerValue: core.ADCValue(cal.Untrigger),
			},
			StepsPerFlap: core.StepDelta(stepsPerFlap),
			HomeOffset:   core.StepDelta(b.HomeOffset),
		}
	}
	return out, nil
}

// MessageSequence builds the configured message rows for the display width
func (c *Config) MessageSequence() (*core.MessageSequence, error) {
	seq, err := core.NewMessageSequence(len(c.Display.Bits), c.Messages...)
	if err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	return seq, nil
}

// Timeout returns the serial timeout as a duration
func (s SerialConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// Default returns the four-cell prototype board: step on GP18, clutches on
// GP19-GP22, one hall sensor channel per cell.
func Default() *Config {
	cfg := &Config{
		Display: DisplayConfig{
			StepPin:      DefaultStepPin,
			PulseWidthUs: DefaultPulseWidthUs,
			SettleMs:     DefaultSettleMs,
			StepsPerFlap: DefaultStepsPerFlap,
			Calibration:  CalibrationConfig{Trigger: DefaultTrigger, Untrigger: DefaultUntrigger},
			Bits: []BitConfig{
				{ClutchPin: "gpio19", Channel: 0},
				{ClutchPin: "gpio20", Channel: 1},
				{ClutchPin: "gpio21", Channel: 2},
				{ClutchPin: "gpio22", Channel: 3},
			},
		},
		Messages: []string{"HI", "GO", "1234"},
	}
	applyDefaults(cfg)
	return cfg
}
