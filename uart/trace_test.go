package uart

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTrace_ReferencePattern(t *testing.T) {
	cfg, err := NewTimingConfig()
	require.NoError(t, err)
	bit := cfg.BitPeriod()

	// [(0,T), (bit0,T), ..., (bit7,T), (1,T), (1,2T)] for 0x49.
	got := FrameTrace(0x49, cfg)
	want := Trace{
		{Low, bit},
		{High, bit}, {Low, bit}, {Low, bit}, {High, bit},
		{Low, bit}, {Low, bit}, {High, bit}, {Low, bit},
		{High, bit},
		{High, 2 * bit},
	}
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestFrameTrace_TotalDuration(t *testing.T) {
	cfg, err := NewTimingConfig()
	require.NoError(t, err)

	for b := 0; b < 256; b++ {
		tr := FrameTrace(byte(b), cfg)
		require.Equal(t, cfg.FrameDuration(), tr.TotalDuration(), "byte 0x%02X", b)
		require.Len(t, tr, FrameBits+1)
	}
}

func TestTrace_Coalesce(t *testing.T) {
	bit := time.Millisecond

	tests := []struct {
		name string
		in   Trace
		want Trace
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "merges adjacent equal levels",
			in:   Trace{{Low, bit}, {High, bit}, {High, bit}, {High, 2 * bit}},
			want: Trace{{Low, bit}, {High, 4 * bit}},
		},
		{
			name: "drops zero duration segments",
			in:   Trace{{Low, 0}, {High, bit}, {Low, 0}, {High, bit}},
			want: Trace{{High, 2 * bit}},
		},
		{
			name: "already coalesced",
			in:   Trace{{Low, bit}, {High, bit}},
			want: Trace{{Low, bit}, {High, bit}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Coalesce()
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestTrace_Equal(t *testing.T) {
	a := Trace{{Low, time.Millisecond}, {High, time.Second}}
	b := Trace{{Low, time.Millisecond}, {High, time.Second}}
	c := Trace{{Low, time.Millisecond}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
	assert.True(t, Trace(nil).Equal(nil))
}

func TestTrace_String(t *testing.T) {
	tr := Trace{{Low, time.Millisecond}, {High, 2 * time.Millisecond}}
	assert.Equal(t, "(0,1ms) (1,2ms)", tr.String())
}

func TestTrace_WriteCSV(t *testing.T) {
	tr := Trace{{Low, time.Microsecond}, {High, 3 * time.Microsecond}}

	var sb strings.Builder
	require.NoError(t, tr.WriteCSV(&sb))

	want := "level,duration_ns\n0,1000\n1,3000\n"
	assert.Equal(t, want, sb.String())
}
