// Package types contains common types used across the application
package types

import "time"

// Record is the read shape of a stored prediction.
type Record struct {
	ID               uint64    `json:"id"`
	Owner            string    `json:"owner"`
	Label            string    `json:"label"`
	TargetTime       time.Time `json:"target_time"`
	SubmissionTime   time.Time `json:"submission_time"`
	Revealed         bool      `json:"revealed"`
	Active           bool      `json:"active"`
	ValueHandle      string    `json:"value_handle"`
	ConfidenceHandle string    `json:"confidence_handle"`
}

// Entry represents a leaderboard row.
type Entry struct {
	Rank        int    `json:"rank"`
	RecordID    uint64 `json:"record_id"`
	Owner       string `json:"owner"`
	Label       string `json:"label"`
	Accuracy    int64  `json:"accuracy"`
	ActualValue int64  `json:"actual_value"`
}

// Ranking carries rank and percentile for a single record.
// Rank 0 means the record is not on the leaderboard.
type Ranking struct {
	RecordID   uint64 `json:"record_id"`
	Rank       int    `json:"rank"`
	Percentile int    `json:"percentile"`
	Total      int    `json:"total"`
}
