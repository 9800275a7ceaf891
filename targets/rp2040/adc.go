//go:build (rp2040 || rp2350) && !mcp3008

package main

import (
	"errors"
	"machine"

	"splitflap/core"
)

// Hall sensors on the on-chip ADC: ADC0-ADC2 (GP26-GP28). ADC3 senses VSYS
// on a Pico.
var sensorChannels = []core.ADCChannelID{0, 1, 2}

// RpAdcDriver implements core.ADCDriver using TinyGo's machine.ADC.
type RpAdcDriver struct {
	channels map[core.ADCChannelID]*machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		channels: make(map[core.ADCChannelID]*machine.ADC),
	}
}

func newSensorADC() (core.ADCDriver, error) {
	d := NewRPAdcDriver()
	if err := d.Init(core.ADCConfig{}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *RpAdcDriver) Init(cfg core.ADCConfig) error {
	machine.InitADC()
	return nil
}

// ConfigureChannel puts the channel's pin in analog mode
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	if _, ok := d.channels[ch]; ok {
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errors.New("unsupported ADC channel")
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a 12-bit sample (0-4095)
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	adc, ok := d.channels[ch]
	if !ok {
		return 0, errors.New("ADC channel not configured")
	}
	// machine.ADC scales its 12-bit result to 16 bits
	return core.ADCValue(adc.Get() >> 4), nil
}
