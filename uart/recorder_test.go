package uart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-uartsim/simclock"
)

func TestRecorder_CapturesFrame(t *testing.T) {
	tx, line, _ := newTestTransmitter(t)
	cfg := tx.Config()

	rec := NewRecorder(line)
	require.NoError(t, tx.SendByte(0x49))

	got := rec.Trace()
	want := FrameTrace(0x49, cfg).Coalesce()
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestRecorder_SeededWithAttachmentLevel(t *testing.T) {
	clk := simclock.NewSimulated()
	line := NewLine("tx", High, clk)

	// Attach mid-session; the recorder window starts at attachment.
	clk.Sleep(time.Millisecond)
	rec := NewRecorder(line)

	clk.Sleep(2 * time.Millisecond)
	line.Drive(Low)
	clk.Sleep(time.Millisecond)

	got := rec.Trace()
	want := Trace{{High, 2 * time.Millisecond}, {Low, time.Millisecond}}
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestRecorder_TraceUntil(t *testing.T) {
	clk := simclock.NewSimulated()
	line := NewLine("tx", High, clk)
	rec := NewRecorder(line)

	line.Drive(Low)
	clk.Sleep(4 * time.Millisecond)
	line.Drive(High)
	clk.Sleep(4 * time.Millisecond)

	got := rec.TraceUntil(2 * time.Millisecond)
	want := Trace{{Low, 2 * time.Millisecond}}
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)

	assert.Nil(t, rec.TraceUntil(0))
}

func TestRecorder_Close(t *testing.T) {
	clk := simclock.NewSimulated()
	line := NewLine("tx", High, clk)
	rec := NewRecorder(line)

	line.Drive(Low)
	clk.Sleep(time.Millisecond)

	rec.Close()
	line.Drive(High)
	clk.Sleep(time.Millisecond)

	// Edges after Close are not observed; the captured low level runs to
	// the end of the requested window.
	got := rec.TraceUntil(2 * time.Millisecond)
	want := Trace{{Low, 2 * time.Millisecond}}
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestRecorder_UniqueNames(t *testing.T) {
	clk := simclock.NewSimulated()
	line := NewLine("tx", High, clk)

	r1 := NewRecorder(line)
	r2 := NewRecorder(line)
	assert.NotEqual(t, r1.Name(), r2.Name())

	line.Drive(Low)
	clk.Sleep(time.Millisecond)

	// Both observe the same edges.
	assert.True(t, r1.Trace().Equal(r2.Trace()))
}
