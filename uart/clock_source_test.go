package uart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-uartsim/simclock"
)

func TestNewClockSource_Validation(t *testing.T) {
	_, err := NewClockSource(nil, nil)
	require.ErrorIs(t, err, ErrNilClock)

	cs, err := NewClockSource(simclock.NewSimulated(), nil)
	require.NoError(t, err)
	assert.Equal(t, Low, cs.Line().Level())
	assert.Equal(t, uint64(0), cs.Cycles())
}

func TestClockSource_AlternatingPhases(t *testing.T) {
	clk := simclock.NewSimulated()
	cfg, err := NewTimingConfig(WithClock(clk), WithClockFrequency(1_000_000))
	require.NoError(t, err)

	cs, err := NewClockSource(clk, cfg)
	require.NoError(t, err)

	cs.RunCycles(3)
	assert.Equal(t, uint64(3), cs.Cycles())
	assert.Equal(t, 3*time.Microsecond, clk.Now())

	// Each phase lasts exactly half a clock period.
	half := cfg.ClockPeriod() / 2
	want := Trace{
		{Low, half}, {High, half},
		{Low, half}, {High, half},
		{Low, half}, {High, half},
	}
	got := cs.Line().TraceBetween(0, clk.Now())
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestClockSource_RunStopsOnCancel(t *testing.T) {
	clk := simclock.NewSimulated()
	cs, err := NewClockSource(clk, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context stops the sequence at the next cycle boundary.
	cs.Run(ctx)
	assert.Equal(t, uint64(0), cs.Cycles())
}

func TestClockSource_IndependentTimeBase(t *testing.T) {
	// The clock source owns its line and time base; running it does not
	// advance the transmitter's clock.
	txClk := simclock.NewSimulated()
	csClk := simclock.NewSimulated()

	cs, err := NewClockSource(csClk, nil)
	require.NoError(t, err)

	cs.RunCycles(10)
	assert.Equal(t, time.Duration(0), txClk.Now())
	assert.Positive(t, csClk.Now())
}
