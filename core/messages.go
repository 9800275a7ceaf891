package core

import "errors"

var (
	ErrEmptySequence = errors.New("message sequence has no rows")
	ErrRowWidth      = errors.New("message row wider than display")
)

// MessageSequence is a cyclic list of fixed-width rows, one column per bit
type MessageSequence struct {
	width int
	rows  [][]byte
	next  int
}

// NewMessageSequence builds a sequence for a display width. Short rows are
// padded with blanks and lowercase letters are upper-cased.
func NewMessageSequence(width int, rows ...string) (*MessageSequence, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySequence
	}
	seq := &MessageSequence{width: width, rows: make([][]byte, 0, len(rows))}
	for i, text := range rows {
		if len(text) > width {
			return nil, withDetail(ErrRowWidth, "row "+itoa(i)+" has "+itoa(len(text))+
				" symbols, width "+itoa(width))
		}
		row := make([]byte, width)
		for col := range row {
			if col < len(text) {
				row[col] = upper(text[col])
			} else {
				row[col] = Symbols[0]
			}
		}
		seq.rows = append(seq.rows, row)
	}
	return seq, nil
}

// Next returns the next row, wrapping back to the first after the last.
// The returned slice must not be modified.
func (m *MessageSequence) Next() []byte {
	row := m.rows[m.next]
	m.next = (m.next + 1) % len(m.rows)
	return row
}

// Position returns the index of the row the next call to Next will return
func (m *MessageSequence) Position() int {
	return m.next
}

// Width returns the row width
func (m *MessageSequence) Width() int {
	return m.width
}

// Len returns the number of rows
func (m *MessageSequence) Len() int {
	return len(m.rows)
}

// Row returns row i
func (m *MessageSequence) Row(i int) []byte {
	return m.rows[i]
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
