package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete smoke run and writes a summary to out.
func Run(ctx context.Context, config *Config, out io.Writer) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get()

	log.Info(ctx, "starting pokecalc smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("batchSize", config.BatchSize),
		logger.Int("workers", config.Workers),
		logger.Int("generation", config.Generation),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Check the built-in example
	if _, err := verifyExample(ctx, config, client); err != nil {
		return stats, fmt.Errorf("example verification failed: %w", err)
	}

	// Step 3: Generate and submit random matchups
	reqs := generateRequests(ctx, config, stats)
	if err := submitRequests(ctx, config, reqs, stats); err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	// Step 4: Check history ordering
	if err := verifyHistory(ctx, config, client, stats); err != nil {
		return stats, fmt.Errorf("history verification failed: %w", err)
	}

	// Step 5: Save requests to file
	if config.OutputFile != "" {
		if err := saveRequestsToFile(ctx, config.OutputFile, reqs); err != nil {
			log.Warn(ctx, "failed to save requests to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(out, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d requests failed", stats.Failed, stats.RequestsSubmitted)
	}
	log.Info(ctx, "smoke run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// Any 200 is healthy; the body is a Prometheus scrape.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveRequestsToFile writes the generated matchups as a JSON array so a
// run can be replayed.
func saveRequestsToFile(ctx context.Context, filename string, reqs []model.Request) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal requests: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "requests saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the summary with grouped thousands.
func displayFinalStats(out io.Writer, stats *Stats) {
	var successRate, perSecond float64
	if stats.RequestsSubmitted > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.RequestsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "requests:  %d generated, %d submitted\n", stats.RequestsGenerated, stats.RequestsSubmitted)
	p.Fprintf(out, "outcomes:  %d ok, %d rejected, %d failed (%.1f%% ok)\n",
		stats.Succeeded, stats.Rejected, stats.Failed, successRate)
	p.Fprintf(out, "history:   %d records checked\n", stats.HistoryRetrieved)
	p.Fprintf(out, "duration:  %v (%.1f req/s)\n", stats.Duration.Round(time.Millisecond), perSecond)
}
