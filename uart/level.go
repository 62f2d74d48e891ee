package uart

import "time"

// Level represents the binary state of a logic line.
type Level uint8

// Logic levels of a binary signal line.
const (
	// Low is logic 0: the active start-bit level.
	Low Level = 0
	// High is logic 1: the idle level of a UART line.
	High Level = 1
)

// IsHigh returns true if the level is logic 1.
func (lv Level) IsHigh() bool { return lv == High }

// IsLow returns true if the level is logic 0.
func (lv Level) IsLow() bool { return lv == Low }

// String returns the string representation of the level.
func (lv Level) String() string {
	if lv == High {
		return "high"
	}
	return "low"
}

// Bit returns the level as a transmitted bit value, 0 or 1.
func (lv Level) Bit() byte {
	if lv == High {
		return 1
	}
	return 0
}

// levelOf converts a data bit (0 or non-zero) to a line level.
func levelOf(bit byte) Level {
	if bit != 0 {
		return High
	}
	return Low
}

// Edge is a timestamped level transition on a line.
//
// At is the elapsed session time at which the line settled to Level.
type Edge struct {
	At    time.Duration
	Level Level
}
