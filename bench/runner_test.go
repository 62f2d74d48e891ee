package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-uartsim/simclock"
	"github.com/arloliu/go-uartsim/uart"
)

func newTestRunner(t *testing.T, opts ...RunnerOption) (*Runner, *uart.TimingConfig) {
	t.Helper()

	cfg, err := uart.NewTimingConfig(uart.WithClock(simclock.NewSimulated()))
	require.NoError(t, err)

	r, err := NewRunner(cfg, opts...)
	require.NoError(t, err)

	return r, cfg
}

func TestRunner_ReferenceScenario(t *testing.T) {
	r, cfg := newTestRunner(t)

	report, err := r.Run(context.Background(), DefaultScenario())
	require.NoError(t, err)

	// Three frames for 0x49, 0x30, 0x31, each matching the LSB-first
	// reference pattern for its byte.
	require.Len(t, report.Frames, 3)
	assert.Equal(t, byte(0x49), report.Frames[0].Data)
	assert.Equal(t, byte(0x30), report.Frames[1].Data)
	assert.Equal(t, byte(0x31), report.Frames[2].Data)
	require.NoError(t, report.Verify(cfg))

	// The first frame begins only after the full reset sequence: 100
	// time-units low plus 100 time-units high.
	settle := 200 * time.Microsecond
	assert.Equal(t, settle, report.Frames[0].Start)

	// Consecutive frames are separated by at least the 500 ms waits.
	assert.GreaterOrEqual(t, report.Frames[1].Start-report.Frames[0].End, 500*time.Millisecond)
	assert.GreaterOrEqual(t, report.Frames[2].Start-report.Frames[1].End, 500*time.Millisecond)

	// Total session time: settle + three frames + two waits, exactly.
	want := settle + 3*cfg.FrameDuration() + 2*500*time.Millisecond
	assert.Equal(t, want, report.Elapsed)

	// The full line trace opens with the idle level held through the reset
	// sequence and spans the whole session.
	require.NotEmpty(t, report.LineTrace)
	assert.Equal(t, uart.Segment{Level: uart.High, Duration: settle}, report.LineTrace[0])
	assert.Equal(t, report.Elapsed, report.LineTrace.TotalDuration())

	assert.Equal(t, uint64(3), report.FramesSent)
	assert.Equal(t, uint64(3*uart.FrameBits), report.BitsSent)
	assert.Equal(t, uint64(0), report.BusyRejects)
}

func TestRunner_FullTraceConcatenation(t *testing.T) {
	r, cfg := newTestRunner(t)

	sc := DefaultScenario()
	report, err := r.Run(context.Background(), sc)
	require.NoError(t, err)

	// Reconstruct the expected full-session step trace and compare its
	// edge form against the captured line trace.
	var want uart.Trace
	want = append(want, uart.Segment{Level: uart.High, Duration: sc.ResetLowDuration() + sc.ResetHighDuration()})
	for _, step := range sc.Steps {
		switch step.Op {
		case OpSend:
			want = append(want, uart.FrameTrace(step.Data, cfg)...)
		case OpWait:
			want = append(want, uart.Segment{Level: uart.High, Duration: step.Duration})
		}
	}

	assert.True(t, report.LineTrace.Equal(want.Coalesce()),
		"got %v, want %v", report.LineTrace, want.Coalesce())
}

func TestRunner_SendScenarioBackToBack(t *testing.T) {
	r, cfg := newTestRunner(t)

	report, err := r.Run(context.Background(), SendScenario([]byte{0x5A, 0x5A}, 0))
	require.NoError(t, err)

	require.Len(t, report.Frames, 2)
	require.NoError(t, report.Verify(cfg))

	// Back-to-back frames: identical traces separated by exactly the gap.
	assert.True(t, report.Frames[0].Trace.Equal(report.Frames[1].Trace))
	assert.Equal(t, report.Frames[0].End, report.Frames[1].Start)
}

func TestRunner_WithClockSource(t *testing.T) {
	clk := simclock.NewSimulated()
	cfg, err := uart.NewTimingConfig(
		uart.WithClock(clk),
		uart.WithClockFrequency(1_000_000),
	)
	require.NoError(t, err)

	r, err := NewRunner(cfg, WithClockSource(true))
	require.NoError(t, err)

	// Keep the session short: one byte, no long waits.
	sc := DefaultScenario()
	sc.ResetLow = 10
	sc.ResetHigh = 10
	sc.Steps = []Step{{Op: OpSend, Data: 0x49}}

	report, err := r.Run(context.Background(), sc)
	require.NoError(t, err)

	// The reference clock ran one cycle per clock period of session time.
	want := uint64(report.Elapsed / cfg.ClockPeriod())
	assert.Equal(t, want, report.ClockCycles)
}

func TestRunner_WithSink(t *testing.T) {
	rec := &edgeCounter{}
	r, _ := newTestRunner(t, WithSink("dut", rec))

	_, err := r.Run(context.Background(), SendScenario([]byte{0x00}, 0))
	require.NoError(t, err)

	// 0x00 produces a single low span and a return to idle: two edges.
	assert.Equal(t, 2, rec.count)
}

type edgeCounter struct {
	count int
}

func (c *edgeCounter) OnEdge(uart.Edge) { c.count++ }

func TestRunner_Cancellation(t *testing.T) {
	r, _ := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.Run(ctx, DefaultScenario())
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Frames, "cancellation before the first step sends nothing")
}

func TestRunner_InvalidScenario(t *testing.T) {
	r, _ := newTestRunner(t)

	_, err := r.Run(context.Background(), &Scenario{TimeUnit: time.Microsecond})
	require.ErrorIs(t, err, ErrNoSteps)
}

func TestReport_Summary(t *testing.T) {
	r, _ := newTestRunner(t)

	report, err := r.Run(context.Background(), SendScenario([]byte{0x49}, 0))
	require.NoError(t, err)

	s := report.Summary()
	assert.Contains(t, s, "1 frame(s)")
	assert.Contains(t, s, "0x49")
}
