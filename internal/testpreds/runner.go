// Package testpreds seeds a running service with prediction records,
// reveals them, and verifies leaderboard consistency end to end.
package testpreds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/veilcast/veilcast/pkg/logger"
)

// Run executes the complete seed-and-verify flow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting prediction seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("records", config.NumRecords),
		logger.Int("workers", config.Workers),
		logger.String("horizon", config.Horizon.String()),
		logger.Int("topN", config.TopN))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	preds, err := generatePredictions(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("prediction generation failed: %w", err)
	}

	if err := submitPredictions(ctx, config, preds, stats); err != nil {
		return fmt.Errorf("prediction submission failed: %w", err)
	}
	logger.Get().Info(ctx, "submission completed",
		logger.Int("successful", stats.RecordsSuccessful),
		logger.Int("duplicate", stats.RecordsDuplicate),
		logger.Int("failed", stats.RecordsFailed))

	// Records only become revealable after their target time.
	logger.Get().Info(ctx, "waiting for target times to pass")
	select {
	case <-ctx.Done():
		return fmt.Errorf("cancelled while waiting for target times: %w", ctx.Err())
	case <-time.After(config.Horizon + time.Second):
	}

	if err := revealPredictions(ctx, config, preds, stats); err != nil {
		return fmt.Errorf("reveal failed: %w", err)
	}
	logger.Get().Info(ctx, "reveals completed", logger.Int("revealed", stats.RecordsRevealed))

	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	if err := verifyResults(ctx, config, preds, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// getLeaderboard fetches the top N rows.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard request failed with status: %d", resp.StatusCode)
	}

	var rows []Entry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	stats.LeaderboardRows = len(rows)
	return rows, nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, recordsPerSecond float64
	if stats.RecordsSubmitted > 0 {
		successRate = float64(stats.RecordsSuccessful) / float64(stats.RecordsSubmitted) * 100
	}
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.RecordsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("recordsSubmitted", stats.RecordsSubmitted),
		logger.Int("recordsSuccessful", stats.RecordsSuccessful),
		logger.Int("recordsDuplicate", stats.RecordsDuplicate),
		logger.Int("recordsFailed", stats.RecordsFailed),
		logger.Int("recordsRevealed", stats.RecordsRevealed),
		logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
		logger.Int("leaderboardRows", stats.LeaderboardRows),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("recordsPerSecond", recordsPerSecond))
}
