package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"splitflap/config"
	"splitflap/host/serial"
)

type PortsCommand struct{}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}
	pick := serial.PickDevice(ports)
	for _, port := range ports {
		marker := " "
		if port == pick {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, port)
	}
	return nil
}

type EchoCommand struct {
	Args struct {
		Text []string `positional-arg-name:"text" required:"1"`
	} `positional-args:"yes"`
}

func (c *EchoCommand) Execute(args []string) error {
	dev, err := connect()
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx, cancel := replyContext()
	defer cancel()

	got, err := dev.Echo(ctx, strings.Join(c.Args.Text, " "))
	if err != nil {
		return err
	}
	fmt.Println(got)
	return nil
}

type StatusCommand struct {
	Watch bool `short:"w" long:"watch" description:"Keep polling until interrupted"`
}

func (c *StatusCommand) Execute(args []string) error {
	dev, err := connect()
	if err != nil {
		return err
	}
	defer dev.Close()

	for {
		ctx, cancel := replyContext()
		report, err := dev.Status(ctx)
		cancel()
		if err != nil {
			return err
		}
		fmt.Print(formatStatus(report))
		if !c.Watch {
			return nil
		}
		fmt.Println()
	}
}

type DumpCommand struct{}

func (c *DumpCommand) Execute(args []string) error {
	dev, err := connect()
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx, cancel := replyContext()
	defer cancel()

	lines, err := dev.Dump(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

type MonitorCommand struct{}

func (c *MonitorCommand) Execute(args []string) error {
	dev, err := connect()
	if err != nil {
		return err
	}
	defer dev.Close()

	// Debug output is a toggle on the display; turn it back off on exit
	if err := dev.ToggleDebug(); err != nil {
		return err
	}
	defer func() {
		if err := dev.ToggleDebug(); err != nil {
			log.Printf("Failed to disable debug output: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Monitoring, press Ctrl+C to stop.")
	return dev.Monitor(ctx, func(line string) {
		fmt.Println(line)
	})
}

type CheckCommand struct {
	Args struct {
		File string `positional-arg-name:"config.yaml" required:"yes"`
	} `positional-args:"yes"`
}

func (c *CheckCommand) Execute(args []string) error {
	cfg, err := config.Load(c.Args.File)
	if err != nil {
		return err
	}
	for _, w := range config.Warnings(cfg) {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Print(formatConfig(cfg))
	return nil
}
