package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"splitflap/core"
	"splitflap/host/serial"
	"splitflap/protocol"
)

var ErrClosed = errors.New("device connection closed")

// Marker lines framing an event dump
const (
	dumpBegin = "[EVENT] === Event Ring Dump ==="
	dumpEnd   = "[EVENT] === End Dump ==="
)

// Keep at most this much unread traffic
const inputLimit = 64 * 1024

// Device is a connection to a display's diagnostic port. The port carries
// echoed text, debug lines and binary status frames interleaved, so replies
// are found by scanning everything received since the request.
type Device struct {
	port serial.Port

	mu     sync.Mutex
	input  []byte
	notify chan struct{}

	writeMutex sync.Mutex

	stopChan chan struct{}
	doneChan chan struct{}
	closed   bool
}

// Open opens the serial port and starts reading
func Open(cfg *serial.Config) (*Device, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	// Discard anything the display printed before we connected
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", cfg.Device, err)
	}
	return New(port), nil
}

// New wraps an open port
func New(port serial.Port) *Device {
	d := &Device{
		port:     port,
		notify:   make(chan struct{}, 1),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go d.readLoop()
	return d
}

// readLoop continuously reads from the port. A read that times out returns
// no data, which some drivers report as io.EOF.
func (d *Device) readLoop() {
	defer close(d.doneChan)

	buffer := make([]byte, 256)
	for {
		select {
		case <-d.stopChan:
			return
		default:
		}

		n, err := d.port.Read(buffer)
		if n > 0 {
			d.mu.Lock()
			d.input = append(d.input, buffer[:n]...)
			if over := len(d.input) - inputLimit; over > 0 {
				d.input = d.input[over:]
			}
			d.mu.Unlock()

			select {
			case d.notify <- struct{}{}:
			default:
			}
		}
		if err != nil && err != io.EOF {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// Close stops reading and closes the port
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stopChan)
	err := d.port.Close()
	<-d.doneChan
	return err
}

func (d *Device) write(p []byte) error {
	d.writeMutex.Lock()
	defer d.writeMutex.Unlock()

	if _, err := d.port.Write(p); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// discard drops everything received so far
func (d *Device) discard() {
	d.mu.Lock()
	d.input = d.input[:0]
	d.mu.Unlock()
}

// wait calls match on the received data until it reports done. match runs
// with the input locked and returns how many bytes it consumed.
func (d *Device) wait(ctx context.Context, match func(data []byte) (int, bool)) error {
	for {
		d.mu.Lock()
		n, ok := match(d.input)
		d.input = d.input[n:]
		d.mu.Unlock()
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.stopChan:
			return ErrClosed
		case <-d.notify:
		}
	}
}

// Echo sends text and waits for the display to echo it back upper-cased
func (d *Device) Echo(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	want := []byte(strings.ToUpper(text))

	d.discard()
	if err := d.write([]byte(text)); err != nil {
		return "", err
	}

	err := d.wait(ctx, func(data []byte) (int, bool) {
		i := bytes.Index(data, want)
		if i < 0 {
			return 0, false
		}
		return i + len(want), true
	})
	if err != nil {
		return "", fmt.Errorf("echo: %w", err)
	}
	return string(want), nil
}

// Status requests and decodes one status report
func (d *Device) Status(ctx context.Context) (protocol.StatusReport, error) {
	d.discard()
	if err := d.write([]byte{core.CtrlStatus}); err != nil {
		return protocol.StatusReport{}, err
	}

	var msg protocol.Message
	err := d.wait(ctx, func(data []byte) (int, bool) {
		m, _, end, err := protocol.FindFrame(data)
		if err != nil {
			return 0, false
		}
		msg = m
		return end, true
	})
	if err != nil {
		return protocol.StatusReport{}, fmt.Errorf("status: %w", err)
	}

	report, err := protocol.DecodeStatusReport(msg.Payload)
	if err != nil {
		return protocol.StatusReport{}, fmt.Errorf("status: %w", err)
	}
	return report, nil
}

// Dump requests the event ring and returns the event lines between the
// dump markers
func (d *Device) Dump(ctx context.Context) ([]string, error) {
	d.discard()
	if err := d.write([]byte{core.CtrlDump}); err != nil {
		return nil, err
	}

	var lines []string
	err := d.wait(ctx, func(data []byte) (int, bool) {
		start := bytes.Index(data, []byte(dumpBegin))
		if start < 0 {
			return 0, false
		}
		end := bytes.Index(data[start:], []byte(dumpEnd))
		if end < 0 {
			return 0, false
		}
		end += start + len(dumpEnd)
		lines = splitLines(data[start:end])
		return end, true
	})
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	return lines, nil
}

// ToggleDebug flips debug output on the display
func (d *Device) ToggleDebug() error {
	return d.write([]byte{core.CtrlDebug})
}

// Monitor passes every complete text line received to fn until ctx is done.
// Status frames are skipped. fn must not call back into the device.
func (d *Device) Monitor(ctx context.Context, fn func(line string)) error {
	err := d.wait(ctx, func(data []byte) (int, bool) {
		consumed := 0
		for {
			rest := data[consumed:]
			if _, start, end, err := protocol.FindFrame(rest); err == nil {
				if i := bytes.IndexByte(rest, '\n'); i < 0 || start < i {
					emitLines(rest[:start], fn)
					consumed += end
					continue
				}
			}
			i := bytes.IndexByte(rest, '\n')
			if i < 0 {
				return consumed, false
			}
			emitLines(rest[:i+1], fn)
			consumed += i + 1
		}
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func emitLines(data []byte, fn func(string)) {
	for _, line := range splitLines(data) {
		fn(line)
	}
}

func splitLines(data []byte) []string {
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
