package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/veilcast/veilcast/internal/testpreds"
	"github.com/veilcast/veilcast/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumRecords = 1000
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultHorizon    = 5 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numRecords = flag.Int("records", defaultNumRecords, "Number of prediction records to submit")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		horizon    = flag.Duration("horizon", defaultHorizon, "How far in the future target times land")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &testpreds.Config{
		BaseURL:    *baseURL,
		NumRecords: *numRecords,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Horizon:    *horizon,
		Verbose:    *verbose,
	}

	if err := testpreds.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
