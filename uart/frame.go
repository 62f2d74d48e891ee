package uart

import "strings"

// Framing constants for 8-N-1 asynchronous serial transmission.
const (
	// DataBits is the number of data bits per frame.
	DataBits = 8

	// FrameBits is the number of bit periods a frame occupies on the line:
	// one start bit, eight data bits, one stop bit. The inter-byte idle gap
	// is timing, not frame content, and is not counted here.
	FrameBits = DataBits + 2

	// startBitIndex, stopBitIndex locate the framing bits within a frame.
	startBitIndex = 0
	stopBitIndex  = FrameBits - 1
)

// Frame is one 8-N-1 frame derived from a byte:
//
//	[start=0, bit0..bit7 (LSB first), stop=1]
//
// A Frame is an ephemeral value: the transmitter builds one at the top of
// SendByte and consumes it bit by bit; it is never persisted.
type Frame struct {
	data byte
}

// NewFrame builds the frame for the given data byte.
func NewFrame(data byte) Frame {
	return Frame{data: data}
}

// Data returns the byte the frame encodes.
func (f Frame) Data() byte { return f.data }

// Bit returns the line level of bit position i in transmission order,
// i in [0, FrameBits): position 0 is the start bit, positions 1..8 are
// data bits LSB first, position 9 is the stop bit.
//
// Bit panics if i is out of range; the transmitter only ever iterates
// [0, FrameBits).
func (f Frame) Bit(i int) Level {
	switch {
	case i == startBitIndex:
		return Low
	case i == stopBitIndex:
		return High
	case i > startBitIndex && i < stopBitIndex:
		return f.DataBit(i - 1)
	default:
		panic("uart: frame bit index out of range")
	}
}

// DataBit returns the level of the i-th least-significant data bit,
// i in [0, DataBits).
func (f Frame) DataBit(i int) Level {
	if i < 0 || i >= DataBits {
		panic("uart: data bit index out of range")
	}

	return levelOf((f.data >> i) & 0x01)
}

// Levels returns all FrameBits levels in transmission order.
func (f Frame) Levels() [FrameBits]Level {
	var levels [FrameBits]Level
	for i := range levels {
		levels[i] = f.Bit(i)
	}

	return levels
}

// String renders the frame in transmission order, e.g. "0 10010010 1"
// for 0x49 (start bit, data bits LSB first, stop bit).
func (f Frame) String() string {
	var sb strings.Builder
	sb.WriteByte('0')
	sb.WriteByte(' ')
	for i := 0; i < DataBits; i++ {
		sb.WriteByte('0' + f.DataBit(i).Bit())
	}
	sb.WriteByte(' ')
	sb.WriteByte('1')

	return sb.String()
}
