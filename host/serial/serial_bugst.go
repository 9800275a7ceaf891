package serial

import (
	"fmt"
	"strings"

	bugst "go.bug.st/serial"
)

// BugstPort wraps a go.bug.st/serial port
type BugstPort struct {
	port bugst.Port
}

func openBugst(cfg *Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
	}
	port, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.readTimeout()); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Device, err)
		}
	}
	return &BugstPort{port: port}, nil
}

func (p *BugstPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *BugstPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *BugstPort) Close() error {
	return p.port.Close()
}

// Flush discards pending input
func (p *BugstPort) Flush() error {
	return p.port.ResetInputBuffer()
}

// ListPorts returns the serial ports on this machine, skipping Bluetooth
// ports on macOS
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	var out []string
	for _, port := range ports {
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		out = append(out, port)
	}
	return out, nil
}

// FindDevice returns the first port that looks like a USB CDC device
func FindDevice() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	if port := PickDevice(ports); port != "" {
		return port, nil
	}
	return "", fmt.Errorf("no USB serial device found among %d ports", len(ports))
}

// PickDevice chooses a USB CDC port from a list, preferring ttyACM and
// usbmodem names. It returns "" when none match.
func PickDevice(ports []string) string {
	for _, hint := range []string{"ttyACM", "usbmodem", "ttyUSB", "COM"} {
		for _, port := range ports {
			if strings.Contains(port, hint) {
				return port
			}
		}
	}
	return ""
}
