// Package app wires the record store, reveal processor, and leaderboard
// behind a single facade with one writer lock, so every mutation observes a
// consistent snapshot of record state, entries, and board order.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/veilcast/veilcast/internal/adapters/notify"
	"github.com/veilcast/veilcast/internal/adapters/repository"
	"github.com/veilcast/veilcast/internal/domain/dedupe"
	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/internal/domain/reveal"
	"github.com/veilcast/veilcast/internal/domain/types"
	"github.com/veilcast/veilcast/pkg/logger"
	"github.com/veilcast/veilcast/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMaxLeaderboardLimit = 100
	defaultNotifyQueueSize     = 1024
)

// Service is the application facade over the prediction ledger. All reads
// and writes pass through it; a single RWMutex serializes mutations so the
// store, the entry set, and the board never disagree.
type Service struct {
	mu sync.RWMutex

	records  *repository.RecordStore
	board    *repository.Board
	proc     *reveal.Processor
	notifier *notify.Notifier
	dedupe   dedupe.Deduper
	log      logger.Logger

	recordOpts          []repository.Option
	revealOpts          []reveal.Option
	maxLeaderboardLimit int
	notifyQueueSize     int
}

// Stats is a point-in-time operational snapshot.
type Stats struct {
	TotalRecords    int   `json:"total_records"`
	RevealedRecords int   `json:"revealed_records"`
	BoardSize       int   `json:"board_size"`
	DedupeTracked   int64 `json:"dedupe_tracked"`
}

// New creates a fully wired service with configuration options.
func New(opts ...Option) *Service {
	svc := &Service{
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		notifyQueueSize:     defaultNotifyQueueSize,
		log:                 logger.Named("service"),
	}
	for _, opt := range opts {
		opt(svc)
	}

	svc.records = repository.NewRecordStore(svc.recordOpts...)
	svc.board = repository.NewBoard()
	svc.proc = reveal.NewProcessor(svc.records, svc.board, svc.revealOpts...)
	svc.notifier = notify.New(notify.WithCapacity(svc.notifyQueueSize))
	if svc.dedupe == nil {
		svc.dedupe = dedupe.NewTracker()
	}

	return svc
}

// Start launches background workers. Safe to call once.
func (s *Service) Start(ctx context.Context) {
	s.notifier.Start(ctx)
	s.log.Info(ctx, "service started")
}

// Stop drains and shuts down background workers.
func (s *Service) Stop(ctx context.Context) {
	s.notifier.Close()
	s.log.Info(ctx, "service stopped")
}

// Notifier exposes the event bus for subscribers.
func (s *Service) Notifier() *notify.Notifier {
	return s.notifier
}

// CreateRecord validates and stores a new prediction record.
func (s *Service) CreateRecord(ctx context.Context, owner, label string, targetTime time.Time, handles model.HandlePair) (types.Record, error) {
	s.mu.Lock()
	rec, err := s.records.Create(ctx, owner, label, targetTime, handles)
	s.mu.Unlock()
	if err != nil {
		return types.Record{}, err
	}

	metrics.RecordCreation()
	s.notifier.PublishCreated(ctx, notify.RecordCreated{
		RecordID:   rec.ID,
		Owner:      rec.Owner,
		Label:      rec.Label,
		TargetTime: rec.TargetTime,
	})
	s.log.Debug(ctx, "record created",
		logger.Uint64("record_id", rec.ID),
		logger.String("owner", rec.Owner))

	return toAPIRecord(rec), nil
}

// Record returns a single record by id.
func (s *Service) Record(ctx context.Context, id uint64) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return types.Record{}, err
	}
	return toAPIRecord(rec), nil
}

// RecordsByOwner returns all records submitted by owner, oldest first.
func (s *Service) RecordsByOwner(ctx context.Context, owner string) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.records.ListByOwner(ctx, owner)
	out := make([]types.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.records.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, toAPIRecord(rec))
	}
	return out, nil
}

// Reveal scores a due record against its actual value, places it on the
// leaderboard, and returns the resulting row.
func (s *Service) Reveal(ctx context.Context, id uint64, actualValue int64) (types.Entry, error) {
	s.mu.Lock()
	entry, err := s.proc.Reveal(ctx, id, actualValue)
	if err != nil {
		s.mu.Unlock()
		return types.Entry{}, err
	}
	row := s.entryRow(ctx, entry)
	s.mu.Unlock()

	s.notifier.PublishRevealed(ctx, notify.RecordRevealed{
		RecordID:    entry.RecordID,
		Accuracy:    entry.Accuracy,
		ActualValue: entry.ActualValue,
	})
	s.log.Debug(ctx, "record revealed",
		logger.Uint64("record_id", entry.RecordID),
		logger.Int64("accuracy", entry.Accuracy))

	return row, nil
}

// UpdateAccuracy corrects the accuracy of a revealed record, once, and
// repositions it on the board.
func (s *Service) UpdateAccuracy(ctx context.Context, id uint64, accuracy int64) (types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.proc.UpdateAccuracy(ctx, id, accuracy)
	if err != nil {
		return types.Entry{}, err
	}
	return s.entryRow(ctx, entry), nil
}

// Rank reports rank, percentile, and board size for a record. Rank 0 means
// the record is not on the board.
func (s *Service) Rank(ctx context.Context, id uint64) types.Ranking {
	started := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := types.Ranking{
		RecordID:   id,
		Rank:       s.board.Rank(ctx, id),
		Percentile: s.board.Percentile(ctx, id),
		Total:      s.board.Len(ctx),
	}
	metrics.RecordQueryLatency(float64(time.Since(started).Milliseconds()))
	return r
}

// Leaderboard returns the top limit rows, best first. Limits above the
// configured maximum are clamped rather than rejected.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	started := time.Now()
	if limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.board.TopK(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]types.Entry, 0, len(ids))
	for i, id := range ids {
		entry, ok := s.proc.Entry(ctx, id)
		if !ok {
			continue
		}
		row := s.entryRow(ctx, entry)
		row.Rank = i + 1
		rows = append(rows, row)
	}
	metrics.RecordQueryLatency(float64(time.Since(started).Milliseconds()))
	return rows, nil
}

// GetStats returns service-level counters.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boardSize := s.board.Len(ctx)
	return Stats{
		TotalRecords:    s.records.Count(ctx),
		RevealedRecords: boardSize,
		BoardSize:       boardSize,
		DedupeTracked:   s.dedupe.Size(),
	}
}

// SeenAndRecord reports whether a client submission id was already used and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, submissionID string) bool {
	seen := s.dedupe.SeenAndRecord(ctx, submissionID)
	if seen {
		metrics.RecordDuplicateSubmission()
	}
	return seen
}

// Unrecord releases a submission id so the client may retry after a failure.
func (s *Service) Unrecord(ctx context.Context, submissionID string) {
	s.dedupe.Unrecord(ctx, submissionID)
}

// entryRow composes a leaderboard row from a reveal entry and its record.
// Callers must hold at least the read lock.
func (s *Service) entryRow(ctx context.Context, entry model.Entry) types.Entry {
	row := types.Entry{
		Rank:        s.board.Rank(ctx, entry.RecordID),
		RecordID:    entry.RecordID,
		Accuracy:    entry.Accuracy,
		ActualValue: entry.ActualValue,
	}
	if rec, err := s.records.Get(ctx, entry.RecordID); err == nil {
		row.Owner = rec.Owner
		row.Label = rec.Label
	}
	return row
}

func toAPIRecord(rec model.Record) types.Record {
	return types.Record{
		ID:               rec.ID,
		Owner:            rec.Owner,
		Label:            rec.Label,
		TargetTime:       rec.TargetTime,
		SubmissionTime:   rec.SubmissionTime,
		Revealed:         rec.Revealed,
		Active:           rec.Active,
		ValueHandle:      rec.Handles.Value.String(),
		ConfidenceHandle: rec.Handles.Confidence.String(),
	}
}
