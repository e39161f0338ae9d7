package testpreds

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/pkg/logger"
)

// Labels cycled through when generating predictions.
var labels = []string{
	"btc-close", "eth-close", "sol-close", "rainfall-mm", "temp-high-c",
}

// randomHandle produces a hex string shaped like a real encrypted-value
// handle. The service treats handles as opaque, so random bytes are
// indistinguishable from ciphertext.
func randomHandle() (string, error) {
	buf := make([]byte, model.HandleSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random handle: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// generatePredictions creates the configured number of predictions, each
// with its own owner and idempotency key.
func generatePredictions(ctx context.Context, config *Config, stats *Stats) ([]Prediction, error) {
	logger.Get().Info(ctx, "generating predictions", logger.Int("numRecords", config.NumRecords))

	targetTime := time.Now().UTC().Add(config.Horizon).Format(time.RFC3339)
	preds := make([]Prediction, config.NumRecords)
	for i := range preds {
		valueHandle, err := randomHandle()
		if err != nil {
			return nil, err
		}
		confidenceHandle, err := randomHandle()
		if err != nil {
			return nil, err
		}
		preds[i] = Prediction{
			SubmissionID:     uuid.New().String(),
			Owner:            "seed-" + uuid.New().String(),
			Label:            labels[i%len(labels)],
			TargetTime:       targetTime,
			ValueHandle:      valueHandle,
			ConfidenceHandle: confidenceHandle,
		}
	}

	stats.RecordsGenerated = len(preds)
	logger.Get().Info(ctx, "generated predictions successfully", logger.Int("count", len(preds)))
	return preds, nil
}
