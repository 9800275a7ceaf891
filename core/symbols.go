package core

// SymbolCount is the number of flaps on every drum
const SymbolCount = 55

// Symbols is the physical order of flaps around a drum, starting at the blank
// flap that rests in the window when the drum is homed. 0x01-0x0B are reserved
// glyph flaps with no ASCII equivalent.
var Symbols = [SymbolCount]byte{
	' ',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	':', '-', '_', '.', '%', '@', '/',
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B,
}

// PositionOf returns the ordinal of the first flap carrying symbol.
// Unknown symbols map to 0 (blank) so a bad byte never stops the display.
func PositionOf(symbol byte) uint32 {
	for i, s := range Symbols {
		if s == symbol {
			return uint32(i)
		}
	}
	return 0
}

// SymbolAt returns the symbol for an ordinal, wrapping past the last flap.
func SymbolAt(ordinal uint32) byte {
	return Symbols[ordinal%SymbolCount]
}

// IsPrintable reports whether a symbol has a printable ASCII glyph.
func IsPrintable(symbol byte) bool {
	return symbol >= 0x20 && symbol < 0x7F
}
