package core

import "testing"

func TestPositionOf(t *testing.T) {
	testCases := []struct {
		symbol   byte
		expected uint32
	}{
		{' ', 0},
		{'A', 1},
		{'H', 8},
		{'Z', 26},
		{'0', 27},
		{'9', 36},
		{':', 37},
		{'/', 43},
		{0x01, 44},
		{0x0A, 53},
		{0x0B, 54},
	}

	for _, tc := range testCases {
		if got := PositionOf(tc.symbol); got != tc.expected {
			t.Errorf("PositionOf(0x%02X): expected %d, got %d", tc.symbol, tc.expected, got)
		}
	}
}

func TestPositionOfUnknown(t *testing.T) {
	for _, b := range []byte{'a', '#', 0x00, 0x7F, 0xFF} {
		if got := PositionOf(b); got != 0 {
			t.Errorf("PositionOf(0x%02X): expected 0 for unknown symbol, got %d", b, got)
		}
	}
}

func TestSymbolTableUnique(t *testing.T) {
	seen := make(map[byte]int)
	for i, s := range Symbols {
		if prev, ok := seen[s]; ok {
			t.Errorf("Symbol 0x%02X appears at %d and %d", s, prev, i)
		}
		seen[s] = i
	}
}

func TestSymbolAt(t *testing.T) {
	for i := uint32(0); i < SymbolCount; i++ {
		if PositionOf(SymbolAt(i)) != i {
			t.Errorf("SymbolAt(%d) does not map back to %d", i, i)
		}
	}
	if SymbolAt(SymbolCount+1) != 'A' {
		t.Errorf("Expected SymbolAt to wrap, got 0x%02X", SymbolAt(SymbolCount+1))
	}
}
