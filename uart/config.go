package uart

import (
	"fmt"
	"time"

	"github.com/arloliu/go-uartsim/logger"
	"github.com/arloliu/go-uartsim/simclock"
)

// Default timing parameters for a transmission session.
const (
	// DefaultBaudRate is the default serial bit rate in bits per second.
	DefaultBaudRate = 9600

	// DefaultClockFrequency is the default reference clock frequency in Hz.
	DefaultClockFrequency = 1_000_000

	// DefaultIdleGapBits is the default inter-byte idle gap in bit periods.
	// Two bit periods guarantee a minimum inter-frame spacing so a DUT's
	// receiver has settled before the next frame may begin.
	DefaultIdleGapBits = 2
)

// Supported parameter ranges.
const (
	MinBaudRate = 50
	MaxBaudRate = 10_000_000

	MinClockFrequency = 1
	MaxClockFrequency = 1_000_000_000

	MinIdleGapBits = 1
	MaxIdleGapBits = 64
)

// TimingConfig holds all timing parameters of a transmission session.
//
// The parameters are fixed at session start: the bit period and clock
// period are constant for the lifetime of every component built from the
// config, and all bit timings are exact integer multiples of the bit
// period.
type TimingConfig struct {
	// baudRate is the serial bit rate in bits per second; it determines the
	// bit period used for every line transition.
	baudRate int

	// clockFrequency is the reference clock frequency in Hz. It is used
	// only by the ClockSource; the two time bases are independent, not
	// locked to each other.
	clockFrequency int

	// idleGapBits is the inter-byte idle gap in bit periods.
	idleGapBits int

	clock  simclock.Clock
	logger logger.Logger
}

// NewTimingConfig creates a timing configuration.
//
// opts are functional options applied in order; see With* functions.
// Defaults: 9600 baud, 1 MHz reference clock, two idle-gap bit periods, a
// fresh simulated clock, and the package default logger.
func NewTimingConfig(opts ...Option) (*TimingConfig, error) {
	cfg := &TimingConfig{
		baudRate:       DefaultBaudRate,
		clockFrequency: DefaultClockFrequency,
		idleGapBits:    DefaultIdleGapBits,
		clock:          simclock.NewSimulated(),
		logger:         logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	// The reference clock is meant to be a fast internal signal. A clock
	// period at or above the bit period is legal (the time bases are
	// independent) but almost certainly a misconfiguration.
	if cfg.ClockPeriod() >= cfg.BitPeriod() {
		cfg.logger.Warn("reference clock period is not below bit period",
			"clock_period", cfg.ClockPeriod(), "bit_period", cfg.BitPeriod())
	}

	return cfg, nil
}

// --- Getters ---

// BaudRate returns the configured bit rate in bits per second.
func (cfg *TimingConfig) BaudRate() int { return cfg.baudRate }

// ClockFrequency returns the configured reference clock frequency in Hz.
func (cfg *TimingConfig) ClockFrequency() int { return cfg.clockFrequency }

// BitPeriod returns the duration of one transmitted bit: 1s / baud rate.
func (cfg *TimingConfig) BitPeriod() time.Duration {
	return time.Second / time.Duration(cfg.baudRate)
}

// ClockPeriod returns the duration of one reference clock cycle:
// 1s / clock frequency.
func (cfg *TimingConfig) ClockPeriod() time.Duration {
	return time.Second / time.Duration(cfg.clockFrequency)
}

// IdleGapBits returns the inter-byte idle gap length in bit periods.
func (cfg *TimingConfig) IdleGapBits() int { return cfg.idleGapBits }

// IdleGap returns the inter-byte idle gap duration.
func (cfg *TimingConfig) IdleGap() time.Duration {
	return time.Duration(cfg.idleGapBits) * cfg.BitPeriod()
}

// FrameDuration returns the total line time of one SendByte call:
// FrameBits bit periods plus the idle gap.
func (cfg *TimingConfig) FrameDuration() time.Duration {
	return time.Duration(FrameBits)*cfg.BitPeriod() + cfg.IdleGap()
}

// Clock returns the configured time base.
func (cfg *TimingConfig) Clock() simclock.Clock { return cfg.clock }

// GetLogger returns the configured logger.
func (cfg *TimingConfig) GetLogger() logger.Logger { return cfg.logger }

// --- Option ---

// Option is a functional option for configuring a TimingConfig.
type Option interface {
	apply(*TimingConfig) error
}

type optFunc func(*TimingConfig) error

func (f optFunc) apply(cfg *TimingConfig) error { return f(cfg) }

// WithBaudRate sets the serial bit rate in bits per second.
func WithBaudRate(bps int) Option {
	return optFunc(func(cfg *TimingConfig) error {
		if bps < MinBaudRate || bps > MaxBaudRate {
			return fmt.Errorf("%w: %d out of range [%d, %d]", ErrInvalidBaudRate, bps, MinBaudRate, MaxBaudRate)
		}
		cfg.baudRate = bps

		return nil
	})
}

// WithClockFrequency sets the reference clock frequency in Hz.
func WithClockFrequency(hz int) Option {
	return optFunc(func(cfg *TimingConfig) error {
		if hz < MinClockFrequency || hz > MaxClockFrequency {
			return fmt.Errorf("%w: %d out of range [%d, %d]", ErrInvalidClockFrequency, hz, MinClockFrequency, MaxClockFrequency)
		}
		cfg.clockFrequency = hz

		return nil
	})
}

// WithIdleGapBits sets the inter-byte idle gap length in bit periods.
func WithIdleGapBits(n int) Option {
	return optFunc(func(cfg *TimingConfig) error {
		if n < MinIdleGapBits || n > MaxIdleGapBits {
			return fmt.Errorf("%w: %d out of range [%d, %d]", ErrInvalidIdleGap, n, MinIdleGapBits, MaxIdleGapBits)
		}
		cfg.idleGapBits = n

		return nil
	})
}

// WithClock sets the time base for all components built from the config.
func WithClock(c simclock.Clock) Option {
	return optFunc(func(cfg *TimingConfig) error {
		if c == nil {
			return ErrNilClock
		}
		cfg.clock = c

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *TimingConfig) error {
		if l == nil {
			return ErrNilLogger
		}
		cfg.logger = l

		return nil
	})
}
