package core

import (
	"sync/atomic"
	"time"
)

// TimerFreq is the tick rate of the system clock (RP2040 timer runs at 1MHz)
const TimerFreq = 1000000

var systemTicks atomic.Uint32

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the current system time (targets copy the hardware timer here
// once per cycle, tests and the simulator drive it directly)
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// Sleeper blocks the caller for a fixed duration. The shaft only ever waits
// through a Sleeper so the simulator can run on virtual time.
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to the Sleeper interface
type SleeperFunc func(d time.Duration)

// Sleep calls f(d)
func (f SleeperFunc) Sleep(d time.Duration) {
	f(d)
}

// BlockingSleeper waits on the runtime clock
var BlockingSleeper Sleeper = SleeperFunc(time.Sleep)
