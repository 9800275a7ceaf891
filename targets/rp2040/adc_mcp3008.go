//go:build (rp2040 || rp2350) && mcp3008

package main

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/mcp3008"

	"splitflap/core"
)

// Hall sensors on an MCP3008 on SPI0: SCK GP2, SDO GP3, SDI GP4, CS GP5
var sensorChannels = []core.ADCChannelID{0, 1, 2, 3, 4, 5, 6, 7}

const (
	mcpSCK = machine.GPIO2
	mcpSDO = machine.GPIO3
	mcpSDI = machine.GPIO4
	mcpCS  = machine.GPIO5
)

// MCP3008Driver implements core.ADCDriver on an external MCP3008
type MCP3008Driver struct {
	dev        *mcp3008.Device
	configured [8]bool
}

func newSensorADC() (core.ADCDriver, error) {
	d := &MCP3008Driver{}
	if err := d.Init(core.ADCConfig{}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *MCP3008Driver) Init(cfg core.ADCConfig) error {
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 1000000,
		SCK:       mcpSCK,
		SDO:       mcpSDO,
		SDI:       mcpSDI,
		Mode:      0,
	})
	if err != nil {
		return err
	}
	d.dev = mcp3008.New(machine.SPI0, mcpCS)
	d.dev.Configure()
	return nil
}

func (d *MCP3008Driver) ConfigureChannel(ch core.ADCChannelID) error {
	if ch > 7 {
		return errors.New("unsupported MCP3008 channel")
	}
	d.configured[ch] = true
	return nil
}

// ReadRaw returns a 12-bit sample (0-4095)
func (d *MCP3008Driver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	if ch > 7 || !d.configured[ch] {
		return 0, errors.New("ADC channel not configured")
	}
	v, err := d.dev.Read(int(ch))
	if err != nil {
		return 0, err
	}
	// The driver scales its 10-bit result to 16 bits
	return core.ADCValue(v >> 4), nil
}
