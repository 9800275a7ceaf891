//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"splitflap/core"
)

// Raw timer registers (no latching). The 1MHz timer block sits at a
// different base on each chip, see timerBase in board_*.go.
const (
	timerTimeRawH = timerBase + 0x24 // Raw timer high
	timerTimeRawL = timerBase + 0x28 // Raw timer low
)

var (
	timerRawH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawH)))
	timerRawL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTimeRawL)))
)

// InitClock waits for the timer to give stable readings after TinyGo's
// clock initialization
func InitClock() {
	_ = timerRawL.Get()
	_ = timerRawL.Get()
	_ = timerRawL.Get()
}

// GetHardwareTime returns the low 32 bits of the microsecond counter
func GetHardwareTime() uint32 {
	return timerRawL.Get()
}

// GetHardwareUptime reads the full 64-bit timer
func GetHardwareUptime() uint64 {
	// Read high, low, high again to detect rollover
	for {
		high1 := timerRawH.Get()
		low := timerRawL.Get()
		high2 := timerRawH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime copies the hardware time into the core clock.
// Called once per control cycle.
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
