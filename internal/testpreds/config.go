package testpreds

import "time"

// Config holds configuration for the prediction seed run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumRecords int           // Number of prediction records to generate
	TopN       int           // Number of top entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Horizon    time.Duration // How far in the future target times land
	Verbose    bool          // Enable verbose logging
}

// Prediction represents a record to be submitted.
type Prediction struct {
	SubmissionID     string `json:"submission_id"`
	Owner            string `json:"owner"`
	Label            string `json:"label"`
	TargetTime       string `json:"target_time"`
	ValueHandle      string `json:"value_handle"`
	ConfidenceHandle string `json:"confidence_handle"`

	// RecordID is filled in from the create response.
	RecordID uint64 `json:"-"`
}

// Record mirrors the service's stored-record read shape.
type Record struct {
	ID    uint64 `json:"id"`
	Owner string `json:"owner"`
	Label string `json:"label"`
}

// Entry mirrors a leaderboard row.
type Entry struct {
	Rank     int    `json:"rank"`
	RecordID uint64 `json:"record_id"`
	Accuracy int64  `json:"accuracy"`
}

// Ranking mirrors a rank query result.
type Ranking struct {
	RecordID   uint64 `json:"record_id"`
	Rank       int    `json:"rank"`
	Percentile int    `json:"percentile"`
	Total      int    `json:"total"`
}

// DuplicateAck represents the duplicate-submission response.
type DuplicateAck struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seed-run statistics.
type Stats struct {
	RecordsGenerated  int
	RecordsSubmitted  int
	RecordsSuccessful int
	RecordsDuplicate  int
	RecordsFailed     int
	RecordsRevealed   int
	RankingsRetrieved int
	LeaderboardRows   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
