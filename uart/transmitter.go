package uart

import (
	"sync/atomic"
	"time"

	"github.com/arloliu/go-uartsim/logger"
	"github.com/arloliu/go-uartsim/simclock"
)

// Transmitter realizes the framing and timing contract for 8-N-1
// asynchronous serial transmission over a Line.
//
// The transmitter is an open-loop emitter: it drives the line and observes
// nothing. Within one SendByte call, steps execute in strict program order
// with exact, non-drifting durations; suspension occurs only at the timed
// holds on the injected clock, and a frame is non-cancellable once started.
//
// Calls must be sequential and non-overlapping. Overlapping calls are a
// caller contract violation and are rejected with ErrLineBusy.
type Transmitter struct {
	cfg    *TimingConfig
	line   *Line
	clock  simclock.Clock
	logger logger.Logger

	busy    atomic.Bool
	metrics TransmitterMetrics
}

// NewTransmitter creates a transmitter owning the given serial line.
//
// The line must be at the idle level (logic high).
func NewTransmitter(line *Line, cfg *TimingConfig) (*Transmitter, error) {
	if line == nil {
		return nil, ErrNilLine
	}
	if cfg == nil {
		cfg = mustDefaultConfig()
	}
	if line.Level() != High {
		return nil, ErrLineNotIdle
	}

	return &Transmitter{
		cfg:    cfg,
		line:   line,
		clock:  cfg.Clock(),
		logger: cfg.GetLogger().With("line", line.Name()),
	}, nil
}

func mustDefaultConfig() *TimingConfig {
	cfg, err := NewTimingConfig()
	if err != nil {
		panic(err) // defaults are always valid
	}
	return cfg
}

// Line returns the serial line driven by the transmitter.
func (t *Transmitter) Line() *Line { return t.line }

// Config returns the timing configuration.
func (t *Transmitter) Config() *TimingConfig { return t.cfg }

// Busy returns true while a frame is in flight.
func (t *Transmitter) Busy() bool { return t.busy.Load() }

// Metrics returns the transmitter metrics.
func (t *Transmitter) Metrics() *TransmitterMetrics { return &t.metrics }

// SendByte transmits one byte on the serial line.
//
// The call drives the start bit, the eight data bits LSB first, and the
// stop bit, holding each for exactly one bit period, then holds the line
// at the idle level for the configured idle gap before returning. The
// line is idle-high again when the call returns, and the elapsed clock
// time is exactly (FrameBits + idle gap bits) bit periods, independent of
// the data value.
//
// SendByte returns ErrLineBusy if a frame is already in flight and
// ErrLineNotIdle if the line is not idle-high. Both are caller contract
// violations; the line is left untouched.
func (t *Transmitter) SendByte(data byte) error {
	if !t.busy.CompareAndSwap(false, true) {
		t.metrics.incBusyRejectCount()
		return ErrLineBusy
	}
	defer t.busy.Store(false)

	if t.line.Level() != High {
		t.metrics.incBusyRejectCount()
		return ErrLineNotIdle
	}

	frame := NewFrame(data)
	bit := t.cfg.BitPeriod()

	t.logger.Debug("send frame", "data", data, "frame", frame.String(), "at", t.clock.Now())

	for i := 0; i < FrameBits; i++ {
		t.line.Drive(frame.Bit(i))
		t.clock.Sleep(bit)
		t.metrics.incBitSendCount()
	}

	// Inter-byte idle gap. The stop bit left the line high; only time passes.
	t.clock.Sleep(t.cfg.IdleGap())

	t.metrics.incFrameSendCount()

	return nil
}

// SendBytes transmits a sequence of bytes back to back, each frame
// separated only by the configured idle gap. It stops at the first error.
func (t *Transmitter) SendBytes(data []byte) error {
	for _, b := range data {
		if err := t.SendByte(b); err != nil {
			return err
		}
	}

	return nil
}

// SendByteAt is a convenience for orchestrators: it waits until the clock
// reaches the given session time, then transmits the byte. A start time
// already in the past transmits immediately.
func (t *Transmitter) SendByteAt(data byte, at time.Duration) error {
	if now := t.clock.Now(); at > now {
		t.clock.Sleep(at - now)
	}

	return t.SendByte(data)
}
