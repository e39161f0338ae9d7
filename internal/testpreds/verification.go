package testpreds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/veilcast/veilcast/pkg/logger"
)

// verifyResults cross-checks the leaderboard against per-record rank
// queries: rows must be sorted by accuracy, ranks must be dense from 1, and
// each row's rank endpoint must agree with its leaderboard position.
func verifyResults(ctx context.Context, config *Config, preds []Prediction, leaderboard []Entry, stats *Stats) error {
	for i, row := range leaderboard {
		if row.Rank != i+1 {
			return fmt.Errorf("leaderboard rank not dense at position %d: got %d", i, row.Rank)
		}
		if i > 0 && leaderboard[i-1].Accuracy < row.Accuracy {
			return fmt.Errorf("leaderboard out of order at position %d", i)
		}
	}

	client := newHTTPClient(config.Timeout)
	checked := 0
	for _, row := range leaderboard {
		ranking, err := getRanking(ctx, client, config, row.RecordID)
		if err != nil {
			return err
		}
		if ranking.Rank != row.Rank {
			return fmt.Errorf("record %d: rank endpoint says %d, leaderboard says %d",
				row.RecordID, ranking.Rank, row.Rank)
		}
		if ranking.Percentile < 1 || ranking.Percentile > 100 {
			return fmt.Errorf("record %d: percentile %d out of range", row.RecordID, ranking.Percentile)
		}
		checked++
	}
	stats.RankingsRetrieved = checked

	logger.Get().Info(ctx, "verification passed",
		logger.Int("rowsChecked", len(leaderboard)),
		logger.Int("rankingsChecked", checked))
	return nil
}

func getRanking(ctx context.Context, client *HTTPClient, config *Config, recordID uint64) (Ranking, error) {
	url := fmt.Sprintf("%s/rank/%d", config.BaseURL, recordID)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return Ranking{}, fmt.Errorf("fetch rank for record %d: %w", recordID, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Ranking{}, fmt.Errorf("read rank response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Ranking{}, fmt.Errorf("rank request for record %d failed with status: %d", recordID, resp.StatusCode)
	}

	var ranking Ranking
	if err := json.Unmarshal(body, &ranking); err != nil {
		return Ranking{}, fmt.Errorf("decode ranking: %w", err)
	}
	return ranking, nil
}
