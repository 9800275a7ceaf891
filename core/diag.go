package core

import "splitflap/protocol"

// ByteChannel is the diagnostic serial port. machine.Serial satisfies it.
type ByteChannel interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// StatusSource produces the status report sent on request
type StatusSource interface {
	Status() protocol.StatusReport
}

// Control bytes understood on the diagnostic port. None of them is printable
// so plain text is always echoed.
const (
	CtrlDebug  = 0x04 // EOT: toggle debug output
	CtrlStatus = 0x05 // ENQ: reply with a status frame
	CtrlDump   = 0x12 // DC2: dump the event ring
)

// DiagPollMax bounds the bytes handled per poll so a flood on the port cannot
// stretch a control cycle
const DiagPollMax = 64

// Diagnostics services the diagnostic port once per control cycle.
// All port errors are swallowed; the control loop never waits on the host.
type Diagnostics struct {
	port   ByteChannel
	source StatusSource

	echo    [DiagPollMax]byte
	scratch protocol.ScratchOutput
	seq     uint8

	dropped uint32 // Reads or writes that failed
}

// NewDiagnostics creates a diagnostic service on a port
func NewDiagnostics(port ByteChannel, source StatusSource) *Diagnostics {
	return &Diagnostics{port: port, source: source}
}

// Poll drains up to DiagPollMax buffered bytes without blocking
func (d *Diagnostics) Poll() {
	n := d.port.Buffered()
	if n <= 0 {
		return
	}
	if n > DiagPollMax {
		n = DiagPollMax
	}

	pending := 0
	for i := 0; i < n; i++ {
		b, err := d.port.ReadByte()
		if err != nil {
			d.dropped++
			break
		}
		switch b {
		case CtrlStatus:
			pending = d.flushEcho(pending)
			d.sendStatus()
		case CtrlDump:
			pending = d.flushEcho(pending)
			DumpEvents()
		case CtrlDebug:
			SetDebugEnabled(!IsDebugEnabled())
		default:
			d.echo[pending] = upper(b)
			pending++
		}
	}
	d.flushEcho(pending)
}

func (d *Diagnostics) flushEcho(n int) int {
	if n > 0 {
		d.write(d.echo[:n])
	}
	return 0
}

func (d *Diagnostics) sendStatus() {
	if d.source == nil {
		return
	}
	report := d.source.Status()
	var encErr error

	d.scratch.Reset()
	err := protocol.EncodeFrame(&d.scratch, d.seq, func(out protocol.OutputBuffer) {
		encErr = report.Encode(out)
	})
	if err != nil || encErr != nil || d.scratch.Overflowed() {
		d.dropped++
		return
	}
	d.seq = (d.seq + 1) & protocol.MessageSeqMask
	d.write(d.scratch.Result())
}

func (d *Diagnostics) write(p []byte) {
	if _, err := d.port.Write(p); err != nil {
		d.dropped++
	}
}

// Dropped returns the number of failed port operations
func (d *Diagnostics) Dropped() uint32 {
	return d.dropped
}

// WriteLine writes a debug line to the port. Targets install it with
// SetDebugWriter.
func (d *Diagnostics) WriteLine(msg string) {
	d.write([]byte(msg))
	d.write([]byte("\r\n"))
}
