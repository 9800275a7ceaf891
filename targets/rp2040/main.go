//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strconv"
	"time"

	"splitflap/core"
	"splitflap/protocol"
)

// Longest a single cycle may take, settle delay included
const watchdogMillis = 8000

const heartbeatPeriod = 500000 // µs

var (
	led    = machine.LED
	usb    = &usbPort{}
	panics uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	InitClock()
	UpdateSystemTime()

	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	gpio := NewRPGPIODriver()
	core.SetGPIODriver(gpio)

	adc, err := newSensorADC()
	if err != nil {
		fatal("sensor ADC", err)
	}
	core.SetADCDriver(adc)

	cfg := boardConfig()
	seq, err := core.NewMessageSequence(len(cfg.Bits), boardRows...)
	if err != nil {
		fatal("messages", err)
	}

	shaft, err := core.NewShaft(cfg, core.Hardware{Step: newStepBackend()}, seq)
	if err != nil {
		fatal("shaft", err)
	}

	diag := shaft.AttachDiagnostics(usb)
	core.SetDebugWriter(diag.WriteLine)
	diag.WriteLine("split-flap " + protocol.Version + " on " + chipName)

	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: watchdogMillis}); err == nil {
		machine.Watchdog.Start()
	}

	lastBeat := GetHardwareUptime()
	for {
		// Recover from panics in the control loop; the next cycle starts
		// from fresh sensor samples
		func() {
			defer func() {
				if r := recover(); r != nil {
					panics++
					core.DebugPrintln("[MAIN] recovered panic in cycle, total " + strconv.FormatUint(uint64(panics), 10))
				}
			}()

			UpdateSystemTime()
			shaft.Cycle()
		}()

		machine.Watchdog.Update()

		if now := GetHardwareUptime(); now-lastBeat >= heartbeatPeriod {
			led.Set(!led.Get())
			lastBeat = now
		}
	}
}

// fatal reports a bring-up failure forever. The clutches are released (or
// were never driven), so the drums stay put.
func fatal(stage string, err error) {
	for {
		usb.Write([]byte("[FATAL] " + stage + ": " + err.Error() + "\r\n"))
		for i := 0; i < 10; i++ {
			led.High()
			time.Sleep(50 * time.Millisecond)
			led.Low()
			time.Sleep(50 * time.Millisecond)
		}
	}
}
