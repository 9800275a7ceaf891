package core

import (
	"testing"
	"time"
)

func TestGPIOStepBackendPulse(t *testing.T) {
	gpio := NewMockGPIODriver()
	sleeper := &recordingSleeper{}
	backend := NewGPIOStepBackend(gpio, sleeper)

	if err := backend.Init(18); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !gpio.configured[18] {
		t.Errorf("Expected step pin configured as output")
	}

	gpio.writes = nil
	if err := backend.Pulse(800 * time.Microsecond); err != nil {
		t.Fatalf("Pulse failed: %v", err)
	}

	if len(gpio.writes) != 2 || !gpio.writes[0].value || gpio.writes[1].value {
		t.Errorf("Expected high then low, got %v", gpio.writes)
	}
	if len(sleeper.calls) != 1 || sleeper.calls[0] != 800*time.Microsecond {
		t.Errorf("Expected one 800us hold, got %v", sleeper.calls)
	}
}

func TestGPIOStepBackendNotInitialized(t *testing.T) {
	backend := NewGPIOStepBackend(NewMockGPIODriver(), &recordingSleeper{})
	if err := backend.Pulse(time.Microsecond); err == nil {
		t.Errorf("Expected error pulsing before Init")
	}
}

func TestGPIOStepBackendFailedRiseStillFalls(t *testing.T) {
	gpio := &risingFailGPIO{MockGPIODriver: NewMockGPIODriver()}
	sleeper := &recordingSleeper{}
	backend := NewGPIOStepBackend(gpio, sleeper)
	if err := backend.Init(18); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := backend.Pulse(time.Millisecond); err != errMock {
		t.Errorf("Expected rise error, got %v", err)
	}
	if len(sleeper.calls) != 0 {
		t.Errorf("Expected no hold after a failed rise, got %v", sleeper.calls)
	}
	if gpio.pins[18] {
		t.Errorf("Expected step line left low")
	}
	if gpio.lows != 2 {
		t.Errorf("Expected falling edge attempted after failed rise, got %d low writes", gpio.lows)
	}
}

// risingFailGPIO fails every attempt to drive a pin high
type risingFailGPIO struct {
	*MockGPIODriver
	lows int
}

func (g *risingFailGPIO) SetPin(pin GPIOPin, value bool) error {
	if value {
		return errMock
	}
	g.lows++
	return g.MockGPIODriver.SetPin(pin, value)
}
