package core

import (
	"errors"
	"time"
)

var errMock = errors.New("mock failure")

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	pins       map[GPIOPin]bool
	configured map[GPIOPin]bool
	failSet    map[GPIOPin]bool
	failConfig map[GPIOPin]bool
	writes     []pinWrite
}

type pinWrite struct {
	pin   GPIOPin
	value bool
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins:       make(map[GPIOPin]bool),
		configured: make(map[GPIOPin]bool),
		failSet:    make(map[GPIOPin]bool),
		failConfig: make(map[GPIOPin]bool),
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	if m.failConfig[pin] {
		return errMock
	}
	m.configured[pin] = true
	m.pins[pin] = false
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if m.failSet[pin] {
		return errMock
	}
	m.pins[pin] = value
	m.writes = append(m.writes, pinWrite{pin, value})
	return nil
}

func (m *MockGPIODriver) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// MockADCDriver returns scripted samples per channel
type MockADCDriver struct {
	values     map[ADCChannelID]ADCValue
	configured map[ADCChannelID]bool
	fail       map[ADCChannelID]bool
	reads      int
}

func NewMockADCDriver() *MockADCDriver {
	return &MockADCDriver{
		values:     make(map[ADCChannelID]ADCValue),
		configured: make(map[ADCChannelID]bool),
		fail:       make(map[ADCChannelID]bool),
	}
}

func (m *MockADCDriver) Init(cfg ADCConfig) error {
	return nil
}

func (m *MockADCDriver) ConfigureChannel(ch ADCChannelID) error {
	m.configured[ch] = true
	return nil
}

func (m *MockADCDriver) ReadRaw(ch ADCChannelID) (ADCValue, error) {
	m.reads++
	if m.fail[ch] {
		return 0, errMock
	}
	return m.values[ch], nil
}

// MockStepBackend counts pulses
type MockStepBackend struct {
	pin    GPIOPin
	inited bool
	pulses int
	width  time.Duration
	err    error
}

func (m *MockStepBackend) Init(stepPin GPIOPin) error {
	m.pin = stepPin
	m.inited = true
	return nil
}

func (m *MockStepBackend) Pulse(width time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.pulses++
	m.width = width
	return nil
}

func (m *MockStepBackend) GetName() string {
	return "mock"
}

// recordingSleeper accumulates requested sleeps instead of waiting
type recordingSleeper struct {
	calls []time.Duration
}

func (r *recordingSleeper) Sleep(d time.Duration) {
	r.calls = append(r.calls, d)
}

func (r *recordingSleeper) total() time.Duration {
	var sum time.Duration
	for _, d := range r.calls {
		sum += d
	}
	return sum
}

// Test thresholds and samples on either side of them
var testCalibration = SensorCalibration{TriggerValue: 2600, UntriggerValue: 2400}

const (
	sampleHigh ADCValue = 3000
	sampleLow  ADCValue = 1000
	sampleMid  ADCValue = 2500
)
