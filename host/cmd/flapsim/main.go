package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"splitflap/config"
	"splitflap/core"
	"splitflap/sim"
)

type Options struct {
	Config   string  `short:"c" long:"config" description:"Display config YAML (default: built-in four cell display)"`
	Speed    float64 `short:"s" long:"speed" description:"Simulated seconds per wall second (overrides config)"`
	Hz       int     `long:"hz" default:"30" description:"Screen updates per second"`
	Seed     int64   `long:"seed" description:"Noise and start position seed (overrides config)"`
	Headless int     `long:"headless" value-name:"ROWS" description:"Run without a UI until ROWS rows have been shown, then print the result"`
	Debug    bool    `short:"d" long:"debug" description:"Log homing and row changes"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "flapsim - run the split-flap firmware against simulated drums"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if opts.Speed > 0 {
		cfg.Sim.Speed = opts.Speed
	}
	if opts.Seed != 0 {
		cfg.Sim.Seed = opts.Seed
	}

	runner, err := newRunner(cfg)
	if err != nil {
		log.Fatalf("Failed to build simulator: %v", err)
	}
	core.SetDebugEnabled(opts.Debug)

	if opts.Headless > 0 {
		if err := runHeadless(runner, uint32(opts.Headless)); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := runner.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Simulator error: %v", err)
		}
	}()

	p := tea.NewProgram(initialModel(runner, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

func newRunner(cfg *config.Config) (*sim.Runner, error) {
	for _, w := range config.Warnings(cfg) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	sc, err := cfg.ShaftConfig()
	if err != nil {
		return nil, err
	}
	seq, err := cfg.MessageSequence()
	if err != nil {
		return nil, err
	}
	rig, err := sim.NewRig(sc, sim.Options{
		Noise:       cfg.Sim.Noise,
		MagnetSteps: cfg.Sim.MagnetSteps,
		Seed:        cfg.Sim.Seed,
	})
	if err != nil {
		return nil, err
	}
	shaft, err := core.NewShaft(sc, rig.Hardware(), seq)
	if err != nil {
		return nil, err
	}
	return sim.NewRunner(rig, shaft, sim.RunnerConfig{Hz: opts.Hz, Speed: cfg.Sim.Speed}), nil
}

// runHeadless runs as fast as possible and prints each row once it is
// fully shown. The first settle shows the blank flaps found at homing.
func runHeadless(r *sim.Runner, rows uint32) error {
	core.SetDebugWriter(func(msg string) {
		fmt.Println(msg)
	})

	limit := (rows + 1) * 4 * 3200
	var advances uint32
	for cycles := uint32(0); advances <= rows; cycles++ {
		if cycles > limit {
			return fmt.Errorf("display did not settle: %d rows in %d cycles", advances, cycles)
		}
		if !r.Step().Advanced {
			continue
		}
		advances++
		if advances > 1 {
			s := r.Snapshot()
			fmt.Printf("[%s] row %d: %q\n", s.Virtual.Truncate(time.Millisecond), advances-2, s.Showing)
		}
	}
	return nil
}
