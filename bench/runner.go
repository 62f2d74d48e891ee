package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/go-uartsim/internal/task"
	"github.com/arloliu/go-uartsim/logger"
	"github.com/arloliu/go-uartsim/simclock"
	"github.com/arloliu/go-uartsim/uart"
)

// Runner executes scenarios against a transmitter.
//
// The runner owns the session wiring: it creates the serial and reset
// lines, the transmitter, and a trace recorder, then drives the reset
// sequence and the scenario steps in strict order on the configured time
// base. With the default simulated clock a run completes instantly; with a
// wall clock it takes real time and can drive a physical DUT attached as a
// line sink.
type Runner struct {
	cfg    *uart.TimingConfig
	logger logger.Logger

	clockSource bool
	sinks       map[string]uart.Sink
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption interface {
	apply(*Runner) error
}

type runnerOptFunc func(*Runner) error

func (f runnerOptFunc) apply(r *Runner) error { return f(r) }

// WithClockSource enables the free-running reference clock source during
// scenario execution. The clock source runs on its own time base and
// shares no state with the transmitter; its cycle count appears in the
// report.
func WithClockSource(enabled bool) RunnerOption {
	return runnerOptFunc(func(r *Runner) error {
		r.clockSource = enabled
		return nil
	})
}

// WithSink attaches a sink (a DUT's receiver) to the serial line for the
// duration of every run.
func WithSink(name string, s uart.Sink) RunnerOption {
	return runnerOptFunc(func(r *Runner) error {
		if s == nil {
			return fmt.Errorf("bench: sink %q is nil", name)
		}
		r.sinks[name] = s

		return nil
	})
}

// NewRunner creates a runner for the given timing configuration.
// A nil config uses the defaults.
func NewRunner(cfg *uart.TimingConfig, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		var err error
		cfg, err = uart.NewTimingConfig()
		if err != nil {
			return nil, err
		}
	}

	r := &Runner{
		cfg:    cfg,
		logger: cfg.GetLogger().With("component", "runner"),
		sinks:  make(map[string]uart.Sink),
	}

	for _, opt := range opts {
		if err := opt.apply(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run executes the scenario and returns the captured report.
//
// Execution order is fixed: assert reset low, hold; deassert reset high,
// hold; then execute the steps in order. Context cancellation is honored
// only between steps; a frame in flight always runs to completion.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	clock := r.cfg.Clock()

	serial := uart.NewLine("tx", uart.High, clock)
	reset := uart.NewLine("rst", uart.High, clock)

	tx, err := uart.NewTransmitter(serial, r.cfg)
	if err != nil {
		return nil, err
	}

	for name, s := range r.sinks {
		serial.Attach(name, s)
		defer serial.Detach(name)
	}

	rec := uart.NewRecorder(serial)
	defer rec.Close()

	var (
		cs     *uart.ClockSource
		csMgr  *task.Manager
		csWall bool
	)
	if r.clockSource {
		cs, csMgr, csWall, err = r.startClockSource(ctx)
		if err != nil {
			return nil, err
		}
	}

	start := clock.Now()
	r.logger.Info("scenario start", "scenario", sc.Name, "steps", len(sc.Steps),
		"baud_rate", r.cfg.BaudRate(), "bit_period", r.cfg.BitPeriod())

	// Reset sequence: low, then high, each held for its settle time. The
	// transmitter does not sample the reset line; this fixed delay is the
	// only sequencing before the first send.
	reset.Drive(uart.Low)
	clock.Sleep(sc.ResetLowDuration())
	reset.Drive(uart.High)
	clock.Sleep(sc.ResetHighDuration())

	report := &Report{Scenario: sc.Name, BitPeriod: r.cfg.BitPeriod()}

	for i, step := range sc.Steps {
		select {
		case <-ctx.Done():
			r.logger.Warn("scenario cancelled", "scenario", sc.Name, "step", i)
			r.finish(report, tx, rec, clock.Now()-start, cs, csMgr, csWall)

			return report, ctx.Err()
		default:
		}

		switch step.Op {
		case OpSend:
			frameStart := clock.Now()
			if err := tx.SendByte(step.Data); err != nil {
				r.finish(report, tx, rec, clock.Now()-start, cs, csMgr, csWall)

				return report, fmt.Errorf("bench: step %d send 0x%02X: %w", i, step.Data, err)
			}
			report.Frames = append(report.Frames, FrameResult{
				Data:  step.Data,
				Start: frameStart,
				End:   clock.Now(),
				Trace: serial.TraceBetween(frameStart, clock.Now()),
			})
		case OpWait:
			clock.Sleep(step.Duration)
		}
	}

	r.finish(report, tx, rec, clock.Now()-start, cs, csMgr, csWall)
	r.logger.Info("scenario done", "scenario", sc.Name,
		"frames", report.FramesSent, "elapsed", report.Elapsed)

	return report, nil
}

// startClockSource launches the reference clock for the duration of the
// run. On a wall clock it runs as a managed background task; on a
// simulated time base it is deferred and replayed for the elapsed session
// length in finish, keeping the two processes on independent timelines.
func (r *Runner) startClockSource(ctx context.Context) (*uart.ClockSource, *task.Manager, bool, error) {
	if _, wall := r.cfg.Clock().(*simclock.Wall); wall {
		cs, err := uart.NewClockSource(simclock.NewWall(), r.cfg)
		if err != nil {
			return nil, nil, false, err
		}

		mgr := task.NewManager(ctx, r.logger)
		if err := mgr.Go("clock-source", cs.Run); err != nil {
			return nil, nil, false, err
		}

		return cs, mgr, true, nil
	}

	cs, err := uart.NewClockSource(simclock.NewSimulated(), r.cfg)
	if err != nil {
		return nil, nil, false, err
	}

	return cs, nil, false, nil
}

func (r *Runner) finish(report *Report, tx *uart.Transmitter, rec *uart.Recorder,
	elapsed time.Duration, cs *uart.ClockSource, csMgr *task.Manager, csWall bool,
) {
	if cs != nil {
		if csWall {
			csMgr.Stop()
			csMgr.Wait()
		} else if period := r.cfg.ClockPeriod(); period > 0 {
			// Replay the independent clock timeline for the session length.
			cs.RunCycles(int(elapsed / period))
		}
		report.ClockCycles = cs.Cycles()
	}

	m := tx.Metrics()
	report.LineTrace = rec.Trace()
	report.Elapsed = elapsed
	report.FramesSent = m.FrameSendCount.Load()
	report.BitsSent = m.BitSendCount.Load()
	report.BusyRejects = m.BusyRejectCount.Load()
}
