package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/outfit/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Outfit Engine Probe
===================

Uploads a synthetic catalog to a running outfit service and cross-checks its
rankings and compatibility answers against a locally built index.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -garments int
        Garments generated per category (default 20)
  -combinations int
        Curated combinations to generate (default 500)
  -queries int
        Compatibility queries to cross-check (default 1000)
  -top int
        Ranked combinations to compare (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed int
        Seed for catalog and query generation (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the generated catalog (default: generated_catalog_TIMESTAMP.json)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe with default settings
  go run ./cmd/probe

  # Larger catalog against another address
  go run ./cmd/probe -garments 100 -combinations 5000 -url http://localhost:8080
`)
}
