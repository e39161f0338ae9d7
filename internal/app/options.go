package app

import (
	"time"

	"github.com/veilcast/veilcast/internal/adapters/repository"
	"github.com/veilcast/veilcast/internal/domain/dedupe"
	"github.com/veilcast/veilcast/internal/domain/reveal"
	"github.com/veilcast/veilcast/internal/domain/scoring"
)

// Option applies a configuration option to the service.
type Option func(*Service)

// WithScorer sets the scorer used at reveal time.
func WithScorer(s scoring.Scorer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.revealOpts = append(svc.revealOpts, reveal.WithScorer(s))
		}
	}
}

// WithNow overrides the clock used by the store and the reveal processor,
// for tests.
func WithNow(now func() time.Time) Option {
	return func(svc *Service) {
		if now != nil {
			svc.recordOpts = append(svc.recordOpts, repository.WithNow(now))
			svc.revealOpts = append(svc.revealOpts, reveal.WithNow(now))
		}
	}
}

// WithDeduper overrides the idempotency tracker.
func WithDeduper(d dedupe.Deduper) Option {
	return func(svc *Service) {
		if d != nil {
			svc.dedupe = d
		}
	}
}

// WithMaxLeaderboardLimit caps the number of rows a leaderboard query may
// request.
func WithMaxLeaderboardLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.maxLeaderboardLimit = n
		}
	}
}

// WithNotifyQueueSize sets the capacity of the notification queue.
func WithNotifyQueueSize(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.notifyQueueSize = n
		}
	}
}
