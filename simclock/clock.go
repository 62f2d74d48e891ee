// Package simclock provides the time base for go-uartsim.
//
// All timing-sensitive components (the UART transmitter, the reference
// clock source, the scenario runner) take a Clock rather than calling
// time.Sleep directly. Two implementations are provided:
//
//   - Simulated: a deterministic virtual timeline that advances instantly
//     on Sleep. Simulated time never drifts: Sleep(d) advances Now() by
//     exactly d. This is the default for tests and offline trace capture.
//   - Wall: real time, for driving an actual DUT over a real session.
package simclock

import "time"

// Clock is a source of elapsed time with a blocking wait primitive.
//
// Now reports the time elapsed since the clock was created (the session
// start). Sleep blocks the caller for d and is the sole scheduling point
// of every process driven by the clock.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}
