package uart

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-uartsim/simclock"
)

// ClockSource produces a free-running periodic two-phase reference signal:
// low for half a clock period, high for half a clock period, forever.
//
// The clock source owns its toggle line and its own time base; it shares no
// state with the transmitter. The two are independent time bases that are
// not locked to each other. The signal is exposed for any DUT that needs a
// timing reference; nothing in this package consumes it.
//
// A clock cannot fail in this model: phase transitions are unconditional
// and Run reports no errors.
type ClockSource struct {
	line       *Line
	clock      simclock.Clock
	halfPeriod time.Duration
	cycles     atomic.Uint64
}

// NewClockSource creates a clock source toggling at the config's clock
// frequency against the given time base. The toggle line starts low.
func NewClockSource(clock simclock.Clock, cfg *TimingConfig) (*ClockSource, error) {
	if clock == nil {
		return nil, ErrNilClock
	}
	if cfg == nil {
		cfg = mustDefaultConfig()
	}

	return &ClockSource{
		line:       NewLine("clk", Low, clock),
		clock:      clock,
		halfPeriod: cfg.ClockPeriod() / 2,
	}, nil
}

// Line returns the toggle signal line.
func (s *ClockSource) Line() *Line { return s.line }

// Cycles returns the number of full low/high cycles emitted so far.
func (s *ClockSource) Cycles() uint64 { return s.cycles.Load() }

// Run emits the infinite phase sequence until ctx is cancelled.
//
// Under normal operation the sequence never ends; cancellation is the
// process leaving the simulation, checked only at cycle boundaries.
func (s *ClockSource) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.runCycle()
	}
}

// RunCycles emits exactly n full low/high cycles. It is the deterministic
// form of Run for simulated-time use.
func (s *ClockSource) RunCycles(n int) {
	for i := 0; i < n; i++ {
		s.runCycle()
	}
}

func (s *ClockSource) runCycle() {
	s.line.Drive(Low)
	s.clock.Sleep(s.halfPeriod)
	s.line.Drive(High)
	s.clock.Sleep(s.halfPeriod)
	s.cycles.Add(1)
}
