package protocol

import "testing"

func TestStatusReportRoundTrip(t *testing.T) {
	report := StatusReport{
		Clock:        0xDEADBEEF,
		Cycles:       12345,
		Pulses:       12345,
		Advances:     7,
		SensorFaults: 1,
		OutputFaults: 0,
		Row:          2,
		Bits: []BitStatus{
			{State: 2, Sensor: 0, StepsSinceHome: 467, TargetSteps: 467, Target: 'H', Homes: 3},
			{State: 1, Sensor: 1, StepsSinceHome: 0, TargetSteps: 3189, Target: 0x0A, Homes: 1},
			{State: 0},
		},
	}

	out := NewScratchOutput()
	if err := EncodeFrame(out, 1, func(o OutputBuffer) { report.Encode(o) }); err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	msg, _, _, err := FindFrame(out.Result())
	if err != nil {
		t.Fatalf("FindFrame failed: %v", err)
	}

	got, err := DecodeStatusReport(msg.Payload)
	if err != nil {
		t.Fatalf("DecodeStatusReport failed: %v", err)
	}

	if got.Clock != report.Clock || got.Cycles != report.Cycles || got.Advances != report.Advances {
		t.Errorf("Header mismatch: expected %+v, got %+v", report, got)
	}
	if got.SensorFaults != 1 || got.Row != 2 {
		t.Errorf("Expected sensor faults 1 and row 2, got %d and %d", got.SensorFaults, got.Row)
	}
	if len(got.Bits) != len(report.Bits) {
		t.Fatalf("Expected %d bits, got %d", len(report.Bits), len(got.Bits))
	}
	for i := range report.Bits {
		if got.Bits[i] != report.Bits[i] {
			t.Errorf("Bit %d: expected %+v, got %+v", i, report.Bits[i], got.Bits[i])
		}
	}
}

func TestStatusReportTooManyBits(t *testing.T) {
	report := StatusReport{Bits: make([]BitStatus, MaxStatusBits+1)}
	if err := report.Encode(NewScratchOutput()); err != ErrTooManyBits {
		t.Errorf("Expected ErrTooManyBits, got %v", err)
	}
}

func TestStatusReportMaxBitsFitsFrame(t *testing.T) {
	bits := make([]BitStatus, MaxStatusBits)
	for i := range bits {
		bits[i] = BitStatus{State: 1, Sensor: 1, StepsSinceHome: 3189, TargetSteps: 3189, Target: 'Z', Homes: 100000}
	}
	report := StatusReport{
		Clock: 0x7FFFFFFF, Cycles: 0x7FFFFFFF, Pulses: 0x7FFFFFFF, Advances: 0x7FFFFFFF,
		SensorFaults: 0x7FFFFFFF, OutputFaults: 0x7FFFFFFF, Row: 1000, Bits: bits,
	}

	out := NewScratchOutput()
	err := EncodeFrame(out, 0, func(o OutputBuffer) { report.Encode(o) })
	if err != nil {
		t.Errorf("Expected worst case report to fit in one frame, got %v", err)
	}
}

func TestDecodeStatusReportTruncated(t *testing.T) {
	report := StatusReport{Cycles: 1, Bits: []BitStatus{{State: 2, TargetSteps: 61}}}
	out := NewScratchOutput()
	report.Encode(out)

	payload := out.Result()
	if _, err := DecodeStatusReport(payload[:len(payload)-1]); err == nil {
		t.Errorf("Expected error for truncated payload")
	}
}
