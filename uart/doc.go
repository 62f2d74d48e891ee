// Package uart implements the bit-level transmission timing engine of the
// go-uartsim test harness.
//
// The core type is the [Transmitter], which converts a byte value into a
// precisely timed sequence of logic-level transitions on a [Line] using
// 8-N-1 framing: one start bit (low), eight data bits least-significant
// first, one stop bit (high), followed by an inter-byte idle gap. All bit
// timings are exact integer multiples of the bit period (1/baud rate) and
// are driven through an injected [simclock.Clock], so the engine runs
// identically against simulated or real time.
//
// # Framing
//
// A transmitted frame occupies 10 bit periods on the line:
//
//	idle(1) | start(0) | b0 b1 b2 b3 b4 b5 b6 b7 | stop(1) | idle(1)...
//
// followed by a configurable idle gap (default two bit periods) before
// SendByte returns control. The line idles at logic high.
//
// # Observation
//
// The only observable effect of a transmission is the state of the serial
// line over time. External consumers (a DUT's receiver) attach to the line
// as a [Sink] and are notified of every edge; the [Recorder] sink captures
// a (level, duration) [Trace] for verification. The package never decodes
// what it emits.
//
// A free-running [ClockSource] is provided as a timing reference for DUTs
// that need one. It is an independent time base and is not consumed by the
// transmitter.
package uart
