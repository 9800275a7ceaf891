package serial

import (
	"fmt"
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (github.com/tarm/serial)
// - go.bug.st/serial, which also enumerates ports
// - Loopback ports in tests
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read
	Flush() error
}

// Driver names
const (
	DriverTarm  = "tarm"
	DriverBugst = "bugst"
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds. A read that times out returns no data.
	ReadTimeout int

	// Driver selects the backend, DriverTarm when empty
	Driver string
}

// DefaultConfig returns the configuration for the display's USB port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
		Driver:      DriverTarm,
	}
}

func (c *Config) readTimeout() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// Open opens a port with the configured driver
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	switch cfg.Driver {
	case "", DriverTarm:
		return openNative(cfg)
	case DriverBugst:
		return openBugst(cfg)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", cfg.Driver)
	}
}
