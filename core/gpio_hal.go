package core

import "errors"

var ErrUnknownPin = errors.New("unknown pin name")

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads back the current pin state
	GetPin(pin GPIOPin) (bool, error)
}

// Global singleton used by target code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}

// LookupPin parses a pin name such as "gpio19", "GP19" or "19"
func LookupPin(name string) (GPIOPin, error) {
	digits := name
	for _, prefix := range []string{"gpio", "GPIO", "gp", "GP"} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			digits = name[len(prefix):]
			break
		}
	}
	if len(digits) == 0 || len(digits) > 3 {
		return 0, withDetail(ErrUnknownPin, name)
	}
	var n uint32
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, withDetail(ErrUnknownPin, name)
		}
		n = n*10 + uint32(c-'0')
	}
	return GPIOPin(n), nil
}
