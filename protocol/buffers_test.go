package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Update(0, 9)
	result := scratch.Result()
	if len(result) != 3 || result[0] != 9 {
		t.Errorf("Expected [9 2 3], got %v", result)
	}

	scratch.Output([]byte{4, 5})
	since := scratch.DataSince(3)
	if len(since) != 2 || since[0] != 4 || since[1] != 5 {
		t.Errorf("Expected [4 5] since position 3, got %v", since)
	}

	if scratch.DataSince(10) != nil {
		t.Errorf("Expected nil for position past end")
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 || len(scratch.Result()) != 0 {
		t.Errorf("Expected empty buffer after reset, got %v", scratch.Result())
	}
}

func TestScratchOutputOverflow(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output(make([]byte, MessageMax-1))
	if scratch.Overflowed() {
		t.Fatalf("Did not expect overflow below capacity")
	}

	scratch.Output([]byte{1, 2})
	if !scratch.Overflowed() {
		t.Errorf("Expected overflow when writing past capacity")
	}
	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position %d, got %d", MessageMax, scratch.CurPosition())
	}

	scratch.Reset()
	if scratch.Overflowed() {
		t.Errorf("Expected overflow flag cleared by reset")
	}
}
