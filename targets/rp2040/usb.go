//go:build rp2040 || rp2350

package main

import (
	"machine"
)

// InitUSB configures machine.Serial, which is USB CDC on these boards
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// usbPort is the diagnostic channel. Writes stop after repeated failures so
// an absent host cannot slow the control loop, and resume once the host
// sends something.
type usbPort struct {
	consecutiveWriteFailures uint32
	disconnected             bool
}

func (p *usbPort) Buffered() int {
	return machine.Serial.Buffered()
}

func (p *usbPort) ReadByte() (byte, error) {
	b, err := machine.Serial.ReadByte()
	if err == nil && p.disconnected {
		p.disconnected = false
		p.consecutiveWriteFailures = 0
	}
	return b, err
}

func (p *usbPort) Write(data []byte) (int, error) {
	if p.disconnected {
		return 0, nil
	}
	written := 0
	for written < len(data) {
		n, err := machine.Serial.Write(data[written:])
		if err != nil || n == 0 {
			// Likely disconnect
			p.consecutiveWriteFailures++
			if p.consecutiveWriteFailures > 10 {
				p.disconnected = true
			}
			return written, err
		}
		written += n
	}
	p.consecutiveWriteFailures = 0
	return written, nil
}
