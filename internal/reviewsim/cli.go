package reviewsim

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/ninebox/pkg/logger"
)

// SetupLogging routes logs to stdout and, when logFile is set, to that
// file as well. The returned function closes the file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	level := "info"
	if verbose {
		level = "debug"
	}

	var out io.Writer = os.Stdout
	closeFn := func() {}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = func() { _ = file.Close() }
	}

	if err := logger.Init(logger.WithWriter(out), logger.WithLevel(level)); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the review simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Nine-Box Review Simulator
=========================

Drives a running review service through a full session and checks the
change ledgers against the moves it made.

Usage:
  go run ./cmd/review-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -employees int
        Size of the generated roster (default 200)
  -moves int
        Number of moves made in normal mode (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed uint
        Seed for roster and move generation (default: time based)
  -output string
        Save the exported workbook to this file
  -log string
        Also write logs to this file
  -keep
        Leave the session on the server afterwards
  -verbose
        Log every move
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run ./cmd/review-sim

  # Reproducible run against another host, keeping the workbook
  go run ./cmd/review-sim -url http://localhost:8080 -seed 42 -output out/review.xlsx
`)
}
