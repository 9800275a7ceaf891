package main

import (
	"context"
	"fmt"
	"time"

	"splitflap/config"
	"splitflap/host/device"
	"splitflap/host/serial"
)

// serialConfig resolves the port settings from flags, then the config
// file, then port discovery
func serialConfig() (*serial.Config, error) {
	cfg := serial.DefaultConfig(opts.Port)

	if opts.Config != "" {
		file, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		if cfg.Device == "" {
			cfg.Device = file.Serial.Port
		}
		cfg.Baud = file.Serial.Baud
		cfg.Driver = file.Serial.Driver
	}
	if opts.Driver != "" {
		cfg.Driver = opts.Driver
	}

	if cfg.Device == "" {
		port, err := serial.FindDevice()
		if err != nil {
			return nil, err
		}
		cfg.Device = port
	}
	return cfg, nil
}

func connect() (*device.Device, error) {
	cfg, err := serialConfig()
	if err != nil {
		return nil, err
	}
	dev, err := device.Open(cfg)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Connected to %s\n", cfg.Device)
	return dev, nil
}

func replyContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(opts.Timeout)*time.Millisecond)
}
