package uart

import "errors"

// Sentinel errors for the uart package.
//
// The transmitter is an open-loop emitter with no feedback channel, so
// there is no runtime error taxonomy. The only failure class is a contract
// violation by the caller, reported immediately.
var (
	// ErrLineBusy indicates that SendByte was called while a previous frame
	// was still in flight. Calls must be sequential and non-overlapping.
	ErrLineBusy = errors.New("uart: transmission already in progress")

	// ErrLineNotIdle indicates that the serial line was not at the idle
	// level (logic high) when a transmission was requested.
	ErrLineNotIdle = errors.New("uart: serial line is not idle")

	// ErrInvalidBaudRate indicates a baud rate outside the supported range.
	ErrInvalidBaudRate = errors.New("uart: invalid baud rate")

	// ErrInvalidClockFrequency indicates a reference clock frequency outside
	// the supported range.
	ErrInvalidClockFrequency = errors.New("uart: invalid clock frequency")

	// ErrInvalidIdleGap indicates an idle gap length outside the supported range.
	ErrInvalidIdleGap = errors.New("uart: invalid idle gap")

	// ErrNilLine indicates that a nil Line was provided.
	ErrNilLine = errors.New("uart: line is nil")

	// ErrNilClock indicates that a nil Clock was provided.
	ErrNilClock = errors.New("uart: clock is nil")

	// ErrNilLogger indicates that a nil Logger was provided.
	ErrNilLogger = errors.New("uart: logger is nil")
)
