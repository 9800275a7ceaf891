package protocol

import "errors"

var (
	ErrFrameTooLarge = errors.New("frame exceeds maximum length")
	ErrNoFrame       = errors.New("no complete frame in data")
)

// EncodeFrame writes one frame around the payload produced by frameData.
// seq is masked to its low nibble and tagged with MessageDest.
func EncodeFrame(output OutputBuffer, seq uint8, frameData func(output OutputBuffer)) error {
	cursor := output.CurPosition()

	// Header: length placeholder and sequence
	output.Output([]byte{0, (seq & MessageSeqMask) | MessageDest})

	frameData(output)

	length := len(output.DataSince(cursor)) + MessageTrailerSize
	if length > MessageLengthMax {
		return ErrFrameTooLarge
	}
	output.Update(cursor, uint8(length))

	hi, lo := crcBytes(CRC16(output.DataSince(cursor)))
	output.Output([]byte{hi, lo, MessageValueSync})
	return nil
}

// FindFrame locates the first valid frame in data. The stream may carry other
// traffic (echoed text, debug lines) around frames, so every sync byte is
// tried as a trailer and the frame is accepted only if its length, sequence
// tag and CRC all check out. end is the index just past the frame.
func FindFrame(data []byte) (msg Message, start, end int, err error) {
	for i := MessageLengthMin - 1; i < len(data); i++ {
		if data[i] != MessageValueSync {
			continue
		}
		for length := MessageLengthMin; length <= MessageLengthMax && length <= i+1; length++ {
			s := i + 1 - length
			if int(data[s+MessagePositionLen]) != length {
				continue
			}
			m, ok := parseFrame(data[s : i+1])
			if ok {
				return m, s, i + 1, nil
			}
		}
	}
	return Message{}, 0, 0, ErrNoFrame
}

// parseFrame validates a candidate frame of exactly its declared length
func parseFrame(frame []byte) (Message, bool) {
	n := len(frame)
	seq := frame[MessagePositionSeq]
	if seq&^MessageSeqMask != MessageDest {
		return Message{}, false
	}
	if frame[n-MessageTrailerSync] != MessageValueSync {
		return Message{}, false
	}
	frameCRC := uint16(frame[n-MessageTrailerCRC])<<8 | uint16(frame[n-MessageTrailerCRC+1])
	if frameCRC != CRC16(frame[:n-MessageTrailerSize]) {
		return Message{}, false
	}
	return Message{
		Length:   uint8(n),
		Sequence: seq & MessageSeqMask,
		Payload:  frame[MessageHeaderSize : n-MessageTrailerSize],
		CRC:      frameCRC,
	}, true
}
