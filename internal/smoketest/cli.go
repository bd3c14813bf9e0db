package smoketest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/pokecalc/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to stderr and, when logFile is set, to
// that file as well. The returned func closes the log file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	closeLog := func() error { return nil }
	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closeLog = file.Close
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			_ = closeLog()
			return nil, err
		}
	}
	return closeLog, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`pokecalc smoke runner
=====================

Drives a running pokecalc server: checks /healthz and /example, submits
random matchups and checks the calculation history.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of random matchups to submit (default 1000)
  -batch int
        Requests per batch call; 0 posts them one by one (default 0)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -gen int
        Generation of the generated matchups (default 5)
  -seed uint
        Generator seed; 0 picks one from the clock
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated requests to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/smoke -requests 5000 -batch 50 -workers 8
  go run ./cmd/smoke -gen 9 -seed 42 -output matchups.json
`)
}
