package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Port    string `short:"p" long:"port" description:"Serial device (default: first USB serial port)"`
	Config  string `short:"c" long:"config" description:"Display config YAML; supplies serial settings"`
	Driver  string `long:"driver" choice:"tarm" choice:"bugst" description:"Serial driver"`
	Timeout int    `long:"timeout" default:"2000" description:"Reply timeout in milliseconds"`

	Ports   PortsCommand   `command:"ports" description:"List serial ports"`
	Echo    EchoCommand    `command:"echo" description:"Send text and wait for the echo"`
	Status  StatusCommand  `command:"status" description:"Show the display's status report"`
	Dump    DumpCommand    `command:"dump" description:"Dump the display's event ring"`
	Monitor MonitorCommand `command:"monitor" alias:"mon" description:"Enable debug output and print it"`
	Check   CheckCommand   `command:"check" description:"Validate a display config file"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "flapctl - talk to a split-flap display over its USB diagnostic port"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
