package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/ninebox/internal/reviewsim"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		employees  = flag.Int("employees", reviewsim.DefaultEmployees, "Size of the generated roster")
		moves      = flag.Int("moves", reviewsim.DefaultMoves, "Number of moves made in normal mode")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", reviewsim.DefaultTimeout, "HTTP request timeout")
		seed       = flag.Uint64("seed", 0, "Seed for roster and move generation (0 picks one)")
		outputFile = flag.String("output", "", "Save the exported workbook to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		keep       = flag.Bool("keep", false, "Leave the session on the server afterwards")
		verbose    = flag.Bool("verbose", false, "Log every move")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		reviewsim.ShowHelp()
		return
	}

	closeLog, err := reviewsim.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &reviewsim.Config{
		BaseURL:    *baseURL,
		Employees:  *employees,
		Moves:      *moves,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		OutputFile: *outputFile,
		Keep:       *keep,
		Verbose:    *verbose,
	}

	if _, err := reviewsim.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		closeLog()
		os.Exit(1)
	}
}
