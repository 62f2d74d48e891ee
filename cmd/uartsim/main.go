// Command uartsim runs a UART transmission scenario and reports the
// captured serial line trace.
//
// By default it runs the reference scenario (reset sequence, then 0x49,
// 0x30, 0x31 with 500 ms waits) on a simulated clock and prints a summary.
// A custom byte sequence, a TOML scenario file, wall-clock execution, and
// CSV trace export are available via flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/arloliu/go-uartsim/bench"
	"github.com/arloliu/go-uartsim/logger"
	"github.com/arloliu/go-uartsim/simclock"
	"github.com/arloliu/go-uartsim/uart"
)

var exampleUsage = strings.TrimSpace(`
  uartsim
  uartsim --baud 115200 --bytes 0x49,0x30,0x31 --wait 100ms
  uartsim --scenario bench.toml --out trace.csv
  uartsim --bytes 0x55 --wall --clock-source
`)

func main() {
	var (
		baudRate     int
		clockHz      int
		idleGapBits  int
		bytesArg     string
		waitArg      time.Duration
		scenarioPath string
		outPath      string
		wall         bool
		clockSource  bool
		logLevel     string
	)

	root := &cobra.Command{
		Use:          "uartsim",
		Short:        "Emulate a UART transmitter and capture its line trace",
		Example:      exampleUsage,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(logLevel); err != nil {
				return err
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if changed["scenario"] && changed["bytes"] {
				return fmt.Errorf("--scenario and --bytes are mutually exclusive")
			}

			sc, err := buildScenario(scenarioPath, bytesArg, waitArg)
			if err != nil {
				return err
			}

			var clk simclock.Clock = simclock.NewSimulated()
			if wall {
				clk = simclock.NewWall()
			}

			cfg, err := uart.NewTimingConfig(
				uart.WithBaudRate(baudRate),
				uart.WithClockFrequency(clockHz),
				uart.WithIdleGapBits(idleGapBits),
				uart.WithClock(clk),
			)
			if err != nil {
				return err
			}

			runner, err := bench.NewRunner(cfg, bench.WithClockSource(clockSource))
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			report, err := runner.Run(ctx, sc)
			if err != nil {
				return err
			}

			if err := report.Verify(cfg); err != nil {
				return err
			}

			fmt.Print(report.Summary())

			if outPath != "" {
				if err := writeTrace(report, outPath); err != nil {
					return err
				}
				fmt.Printf("trace written to %s\n", outPath)
			}

			return nil
		},
	}

	flags := root.Flags()
	flags.IntVar(&baudRate, "baud", uart.DefaultBaudRate, "baud rate in bits per second")
	flags.IntVar(&clockHz, "clock-hz", uart.DefaultClockFrequency, "reference clock frequency in Hz")
	flags.IntVar(&idleGapBits, "idle-gap", uart.DefaultIdleGapBits, "inter-byte idle gap in bit periods")
	flags.StringVar(&bytesArg, "bytes", "", "comma-separated bytes to send (decimal or 0x-prefixed hex)")
	flags.DurationVar(&waitArg, "wait", 500*time.Millisecond, "idle wait between sends for --bytes")
	flags.StringVar(&scenarioPath, "scenario", "", "TOML scenario file (overrides --bytes)")
	flags.StringVar(&outPath, "out", "", "write the full line trace as CSV to this file")
	flags.BoolVar(&wall, "wall", false, "run on the wall clock instead of simulated time")
	flags.BoolVar(&clockSource, "clock-source", false, "run the free-running reference clock during the scenario")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildScenario(path, bytesArg string, wait time.Duration) (*bench.Scenario, error) {
	if path != "" {
		return bench.LoadScenario(path)
	}
	if bytesArg == "" {
		return bench.DefaultScenario(), nil
	}

	data, err := parseBytes(bytesArg)
	if err != nil {
		return nil, err
	}

	return bench.SendScenario(data, wait), nil
}

func parseBytes(arg string) ([]byte, error) {
	parts := strings.Split(arg, ",")
	data := make([]byte, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		v, err := strconv.ParseUint(part, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q: %w", part, err)
		}
		data = append(data, byte(v))
	}

	return data, nil
}

func writeTrace(report *bench.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer f.Close()

	return report.WriteCSV(f)
}

func setLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(logger.DebugLevel)
	case "info":
		logger.SetLevel(logger.InfoLevel)
	case "warn":
		logger.SetLevel(logger.WarnLevel)
	case "error":
		logger.SetLevel(logger.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	return nil
}
