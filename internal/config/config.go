// Package config defines service configuration structures and loading hooks.
package config

import "context"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// NotifyQueueSize bounds the in-memory notification queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// DedupeSize sets the size of the submission-id idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// BaselineAccuracy is the flat score assigned at reveal when no
	// decryption capability is configured, in [0, 10000].
	BaselineAccuracy int64 `koanf:"baseline_accuracy"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		MaxLeaderboardLimit: 100,
		NotifyQueueSize:     1024,
		DedupeSize:          50_000,
		BaselineAccuracy:    5000,
	}
}
