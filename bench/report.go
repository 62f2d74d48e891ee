package bench

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arloliu/go-uartsim/uart"
)

// FrameResult captures one transmitted frame: the byte, its window on the
// session timeline, and the edge trace of the serial line over that window.
type FrameResult struct {
	Data  byte
	Start time.Duration
	End   time.Duration
	Trace uart.Trace
}

// Report is the outcome of one scenario run.
type Report struct {
	Scenario  string
	BitPeriod time.Duration

	// Frames holds one entry per completed send step, in order.
	Frames []FrameResult

	// LineTrace is the full serial line trace over the session.
	LineTrace uart.Trace

	Elapsed     time.Duration
	FramesSent  uint64
	BitsSent    uint64
	BusyRejects uint64
	ClockCycles uint64
}

// Verify checks every captured frame trace against the reference frame
// pattern for its byte under the given timing configuration. It returns an
// error describing the first mismatching frame.
func (r *Report) Verify(cfg *uart.TimingConfig) error {
	for i, fr := range r.Frames {
		want := uart.FrameTrace(fr.Data, cfg).Coalesce()
		if !fr.Trace.Equal(want) {
			return fmt.Errorf("bench: frame %d (0x%02X) trace mismatch: got %v, want %v",
				i, fr.Data, fr.Trace, want)
		}
	}

	return nil
}

// WriteCSV writes the full line trace as CSV.
func (r *Report) WriteCSV(w io.Writer) error {
	return r.LineTrace.WriteCSV(w)
}

// Summary renders a short human-readable run summary.
func (r *Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "scenario %q: %d frame(s), %d bit(s), elapsed %v\n",
		r.Scenario, r.FramesSent, r.BitsSent, r.Elapsed)

	for i, fr := range r.Frames {
		fmt.Fprintf(&sb, "  frame %d: 0x%02X at %v (%v)\n", i, fr.Data, fr.Start, fr.End-fr.Start)
	}

	if r.ClockCycles > 0 {
		fmt.Fprintf(&sb, "  reference clock: %d cycle(s)\n", r.ClockCycles)
	}
	if r.BusyRejects > 0 {
		fmt.Fprintf(&sb, "  rejected sends: %d\n", r.BusyRejects)
	}

	return sb.String()
}
