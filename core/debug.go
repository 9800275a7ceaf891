package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a notable control-loop event for post-mortem analysis
type Event struct {
	Kind   uint8  // Event kind code
	Bit    uint8  // Bit index (0 for shaft-wide events)
	Clock  uint32 // System clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event kind codes
const (
	EvtHome        = 1 // home edge seen (v1 = steps since home before reset, v2 = home count)
	EvtSettled     = 2 // bit reached its target (v1 = target steps)
	EvtAdvance     = 3 // message sequence advanced (v1 = row index)
	EvtSensorFault = 4 // ADC read failed, last sample reused (v1 = channel)
	EvtOutputFault = 5 // clutch or step output failed (v1 = pin)
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventCount    uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer. Never blocks.
func RecordEvent(kind, bit uint8, clock, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:   kind,
		Bit:    bit,
		Clock:  clock,
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	eventCount++
}

// Events returns the captured events, oldest first
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventCount returns the number of events recorded since the last clear,
// including ones already overwritten in the ring
func EventCount() uint32 {
	return eventCount
}

// EventName returns the printable name of an event kind
func EventName(kind uint8) string {
	switch kind {
	case EvtHome:
		return "HOME"
	case EvtSettled:
		return "SETTLED"
	case EvtAdvance:
		return "ADVANCE"
	case EvtSensorFault:
		return "SENSOR_FAULT!"
	case EvtOutputFault:
		return "OUTPUT_FAULT!"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents writes the event ring through the debug writer, regardless of
// whether debug output is enabled
func DumpEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	debugPrintln("[EVENT] Total events: " + utoa(eventCount))

	for _, evt := range Events() {
		debugPrintln("[EVENT] " + EventName(evt.Kind) +
			" bit=" + itoa(int(evt.Bit)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEvents clears the event buffer
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	eventCount = 0
}
