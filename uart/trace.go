package uart

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Segment is one (level, duration) pair of a line trace.
type Segment struct {
	Level    Level
	Duration time.Duration
}

// Trace is an ordered sequence of (level, duration) segments describing a
// line over a window of session time.
//
// Two representations occur:
//
//   - A step trace has one segment per timed hold, so consecutive equal
//     levels remain separate segments. FrameTrace produces this form; it is
//     the reference pattern for a transmitted byte.
//   - An edge trace is derived from line transitions, so consecutive equal
//     levels merge into one segment. Line.TraceBetween and Recorder.Trace
//     produce this form; it is what a wire physically shows.
//
// Coalesce converts a step trace to its edge form for comparison.
type Trace []Segment

// TotalDuration returns the sum of all segment durations.
func (tr Trace) TotalDuration() time.Duration {
	var total time.Duration
	for _, seg := range tr {
		total += seg.Duration
	}

	return total
}

// Coalesce merges adjacent segments with equal levels and drops
// zero-duration segments, yielding the edge form of the trace.
func (tr Trace) Coalesce() Trace {
	var out Trace
	for _, seg := range tr {
		if seg.Duration == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Level == seg.Level {
			out[n-1].Duration += seg.Duration
			continue
		}
		out = append(out, seg)
	}

	return out
}

// Equal reports whether two traces are segment-wise identical.
func (tr Trace) Equal(other Trace) bool {
	if len(tr) != len(other) {
		return false
	}
	for i := range tr {
		if tr[i] != other[i] {
			return false
		}
	}

	return true
}

// String renders the trace as a compact sequence, e.g.
// "(0,104.166µs) (1,312.498µs)".
func (tr Trace) String() string {
	var sb strings.Builder
	for i, seg := range tr {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%d,%v)", seg.Level.Bit(), seg.Duration)
	}

	return sb.String()
}

// WriteCSV writes the trace as CSV rows of (level, duration_ns) with a
// header line.
func (tr Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"level", "duration_ns"}); err != nil {
		return fmt.Errorf("uart: write csv header: %w", err)
	}

	for _, seg := range tr {
		row := []string{
			strconv.Itoa(int(seg.Level.Bit())),
			strconv.FormatInt(seg.Duration.Nanoseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("uart: write csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// FrameTrace builds the reference step trace of one SendByte call for the
// given byte under the given timing configuration:
//
//	[(0,T), (bit0,T), ..., (bit7,T), (1,T), (1,gap)]
//
// where T is the bit period and gap is the configured idle gap. Captured
// line traces match FrameTrace(b, cfg).Coalesce().
func FrameTrace(data byte, cfg *TimingConfig) Trace {
	if cfg == nil {
		cfg = mustDefaultConfig()
	}

	frame := NewFrame(data)
	bit := cfg.BitPeriod()

	tr := make(Trace, 0, FrameBits+1)
	for i := 0; i < FrameBits; i++ {
		tr = append(tr, Segment{Level: frame.Bit(i), Duration: bit})
	}
	tr = append(tr, Segment{Level: High, Duration: cfg.IdleGap()})

	return tr
}
