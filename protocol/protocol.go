// Package protocol implements the framing and encoding used on the display's
// diagnostic port
package protocol

// Version is the diagnostic protocol version reported by flapctl
const Version = "0.1.0"

// Frame layout: len, seq, payload..., crc_hi, crc_lo, sync
const (
	MessageMax         = 512 // Scratch buffer size
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 255 // Length is a single byte
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence masks
	MessageSeqMask = 0x0F
)

// Message is a decoded frame
type Message struct {
	Length   uint8
	Sequence uint8  // Low nibble of the seq byte
	Payload  []byte // Frame data without header/trailer
	CRC      uint16
}
