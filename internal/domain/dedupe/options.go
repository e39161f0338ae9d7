// Package dedupe defines the interface for idempotency tracking.
package dedupe

// Option applies a configuration option to the tracker.
type Option func(*tracker)

// WithMaxSize sets the maximum number of ids to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *tracker) {
		d.maxSize = maxSize
	}
}
