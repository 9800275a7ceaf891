package core

// ADCChannelID identifies a logical ADC channel (one per hall sensor).
type ADCChannelID uint8

// ADCValue is the raw ADC reading as seen by the rest of the firmware.
// Convention here: 12-bit counts (0-4095), whatever the converter's width.
type ADCValue uint16

// ADCMax is the largest raw value a driver reports
const ADCMax ADCValue = 4095

// ADCConfig is the high-level config the core cares about.
type ADCConfig struct {
	// Reference voltage in millivolts (0 = driver default)
	Reference uint32
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// Init powers up and configures the ADC peripheral.
	Init(cfg ADCConfig) error

	// ConfigureChannel prepares a channel for analog input.
	// For pin-muxed channels, this should set pin to analog mode.
	ConfigureChannel(ch ADCChannelID) error

	// ReadRaw performs a one-shot sample from the given channel.
	// Returns a 12-bit value (0..ADCMax).
	ReadRaw(ch ADCChannelID) (ADCValue, error)
}

// Global singleton used by target code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
