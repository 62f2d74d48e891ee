// Package bench provides the orchestration layer of the go-uartsim harness:
// scenarios describing reset sequencing and byte schedules, and a runner
// that drives a transmitter through a scenario while capturing the line
// trace for verification.
package bench

import (
	"errors"
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Sentinel errors for scenario loading and validation.
var (
	ErrNoSteps       = errors.New("bench: scenario has no steps")
	ErrUnknownStepOp = errors.New("bench: unknown step op")
	ErrInvalidTiming = errors.New("bench: invalid scenario timing")
	ErrInvalidStep   = errors.New("bench: invalid step")
	ErrNilScenario   = errors.New("bench: scenario is nil")
)

// Step operations.
const (
	// OpSend transmits one byte.
	OpSend = "send"
	// OpWait holds the line idle for a duration.
	OpWait = "wait"
)

// DefaultTimeUnit is the duration of one scenario time-unit. Reset hold
// times are expressed in time-units, matching the convention of HDL test
// benches where the unit is the simulator timescale.
const DefaultTimeUnit = time.Microsecond

// fileScenario mirrors Scenario but uses strings for durations to make the
// TOML form friendly.
type fileScenario struct {
	Name      string     `toml:"name"`
	TimeUnit  string     `toml:"time_unit"`
	ResetLow  int        `toml:"reset_low"`
	ResetHigh int        `toml:"reset_high"`
	Steps     []fileStep `toml:"steps"`
}

type fileStep struct {
	Op       string `toml:"op"`
	Data     int    `toml:"data"`
	Duration string `toml:"duration"`
}

// Step is one orchestration action: either sending a byte or holding the
// line idle for a duration.
type Step struct {
	Op       string
	Data     byte          // OpSend only
	Duration time.Duration // OpWait only
}

// Scenario describes one end-to-end harness run: the reset sequence
// followed by an ordered list of steps.
//
// The reset line is asserted low for ResetLow time-units, then deasserted
// high for ResetHigh time-units, before the first step executes. The
// transmitter does not sample the reset line; the fixed settle delay is the
// only sequencing between reset and the first send.
type Scenario struct {
	Name      string
	TimeUnit  time.Duration
	ResetLow  int
	ResetHigh int
	Steps     []Step
}

// DefaultScenario returns the reference scenario: reset low for 100
// time-units, high for 100 time-units, then the bytes 0x49, 0x30, 0x31
// with 500 ms between sends.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:      "reference",
		TimeUnit:  DefaultTimeUnit,
		ResetLow:  100,
		ResetHigh: 100,
		Steps: []Step{
			{Op: OpSend, Data: 0x49},
			{Op: OpWait, Duration: 500 * time.Millisecond},
			{Op: OpSend, Data: 0x30},
			{Op: OpWait, Duration: 500 * time.Millisecond},
			{Op: OpSend, Data: 0x31},
		},
	}
}

// SendScenario builds a scenario that transmits the given bytes with the
// given idle wait between consecutive sends, using the default reset
// sequence.
func SendScenario(data []byte, between time.Duration) *Scenario {
	sc := DefaultScenario()
	sc.Name = "send"
	sc.Steps = nil

	for i, b := range data {
		if i > 0 && between > 0 {
			sc.Steps = append(sc.Steps, Step{Op: OpWait, Duration: between})
		}
		sc.Steps = append(sc.Steps, Step{Op: OpSend, Data: b})
	}

	return sc
}

// ResetLowDuration returns the reset assertion hold time.
func (sc *Scenario) ResetLowDuration() time.Duration {
	return time.Duration(sc.ResetLow) * sc.TimeUnit
}

// ResetHighDuration returns the post-reset settle time.
func (sc *Scenario) ResetHighDuration() time.Duration {
	return time.Duration(sc.ResetHigh) * sc.TimeUnit
}

// Validate checks the scenario for internal consistency. It is called by
// the runner before execution; load paths call it on every parsed file.
func (sc *Scenario) Validate() error {
	if sc == nil {
		return ErrNilScenario
	}
	if sc.TimeUnit <= 0 {
		return fmt.Errorf("%w: time unit %v must be positive", ErrInvalidTiming, sc.TimeUnit)
	}
	if sc.ResetLow < 0 || sc.ResetHigh < 0 {
		return fmt.Errorf("%w: reset hold times must not be negative", ErrInvalidTiming)
	}
	if len(sc.Steps) == 0 {
		return ErrNoSteps
	}

	for i, step := range sc.Steps {
		switch step.Op {
		case OpSend:
			// Data is a byte by construction; nothing further to check.
		case OpWait:
			if step.Duration <= 0 {
				return fmt.Errorf("%w: step %d wait duration %v must be positive", ErrInvalidStep, i, step.Duration)
			}
		default:
			return fmt.Errorf("%w: step %d op %q", ErrUnknownStepOp, i, step.Op)
		}
	}

	return nil
}

// LoadScenario reads and parses a TOML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench: read scenario file: %w", err)
	}

	return ParseScenario(b)
}

// ParseScenario parses a TOML scenario document and validates it.
//
// Durations are strings in Go duration syntax ("500ms", "1.5s"); time_unit
// defaults to 1µs when omitted; send data may be given in any TOML integer
// form, including hex (data = 0x49).
func ParseScenario(data []byte) (*Scenario, error) {
	var fsc fileScenario
	if err := toml.Unmarshal(data, &fsc); err != nil {
		return nil, fmt.Errorf("bench: parse scenario: %w", err)
	}

	sc := &Scenario{
		Name:      fsc.Name,
		TimeUnit:  DefaultTimeUnit,
		ResetLow:  fsc.ResetLow,
		ResetHigh: fsc.ResetHigh,
	}

	if fsc.TimeUnit != "" {
		unit, err := time.ParseDuration(fsc.TimeUnit)
		if err != nil {
			return nil, fmt.Errorf("bench: parse time unit: %w", err)
		}
		sc.TimeUnit = unit
	}

	for i, fs := range fsc.Steps {
		step := Step{Op: fs.Op}

		switch fs.Op {
		case OpSend:
			if fs.Data < 0 || fs.Data > 0xFF {
				return nil, fmt.Errorf("%w: step %d data %d out of byte range", ErrInvalidStep, i, fs.Data)
			}
			step.Data = byte(fs.Data)
		case OpWait:
			d, err := time.ParseDuration(fs.Duration)
			if err != nil {
				return nil, fmt.Errorf("bench: parse step %d duration: %w", i, err)
			}
			step.Duration = d
		}

		sc.Steps = append(sc.Steps, step)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return sc, nil
}
