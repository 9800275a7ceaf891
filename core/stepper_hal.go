package core

import (
	"errors"
	"time"
)

// StepBackend defines the hardware abstraction for the shared step line.
// Implementations can use GPIO, PIO, or other methods
type StepBackend interface {
	// Init initializes the step output, leaving it low
	Init(stepPin GPIOPin) error

	// Pulse generates a single step pulse: rising edge, hold for width,
	// falling edge. Every drum whose clutch is engaged advances one step.
	Pulse(width time.Duration) error

	// GetName returns backend implementation name
	GetName() string
}

// GPIOStepBackend generates step pulses by toggling a pin through the
// GPIO driver and holding it with a Sleeper.
type GPIOStepBackend struct {
	gpio    GPIODriver
	sleeper Sleeper
	pin     GPIOPin
	ready   bool
}

// NewGPIOStepBackend creates a step backend on top of a GPIO driver
func NewGPIOStepBackend(gpio GPIODriver, sleeper Sleeper) *GPIOStepBackend {
	if sleeper == nil {
		sleeper = BlockingSleeper
	}
	return &GPIOStepBackend{gpio: gpio, sleeper: sleeper}
}

// Init configures the step pin as a low output
func (b *GPIOStepBackend) Init(stepPin GPIOPin) error {
	if err := b.gpio.ConfigureOutput(stepPin); err != nil {
		return err
	}
	if err := b.gpio.SetPin(stepPin, false); err != nil {
		return err
	}
	b.pin = stepPin
	b.ready = true
	return nil
}

// Pulse drives the step pin high for width, then low again.
// The falling edge is always attempted so the line never stays high.
func (b *GPIOStepBackend) Pulse(width time.Duration) error {
	if !b.ready {
		return errors.New("step backend not initialized")
	}
	rise := b.gpio.SetPin(b.pin, true)
	if rise == nil {
		b.sleeper.Sleep(width)
	}
	fall := b.gpio.SetPin(b.pin, false)
	if rise != nil {
		return rise
	}
	return fall
}

// GetName returns the backend name
func (b *GPIOStepBackend) GetName() string {
	return "GPIO"
}
