package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/outfit/internal/probe"
)

// Default configuration constants.
const (
	defaultGarments     = 20
	defaultCombinations = 500
	defaultQueries      = 1000
	defaultTopN         = 50
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultSeed         = 1
	defaultTimeout      = 30 * time.Second
	defaultProbeTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		garments     = flag.Int("garments", defaultGarments, "Garments generated per category")
		combinations = flag.Int("combinations", defaultCombinations, "Curated combinations to generate")
		queries      = flag.Int("queries", defaultQueries, "Compatibility queries to cross-check")
		topN         = flag.Int("top", defaultTopN, "Ranked combinations to compare")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed         = flag.Int64("seed", defaultSeed, "Seed for catalog and query generation")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for the generated catalog (default: generated_catalog_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:      *baseURL,
		Garments:     *garments,
		Combinations: *combinations,
		Queries:      *queries,
		TopN:         *topN,
		Workers:      *workers,
		Timeout:      *timeout,
		Seed:         *seed,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	if err := probe.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
