// Package repository holds the in-memory record store and the leaderboard index.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/pkg/metrics"
)

// Record validation constants.
const (
	minLabelLength = 1
	maxLabelLength = 100
	// maxHorizon bounds how far into the future a prediction may target.
	maxHorizon = 365 * 24 * time.Hour
)

// RecordStore owns prediction records. Ids are assigned sequentially from 0
// and records are never deleted.
type RecordStore struct {
	mu      sync.RWMutex
	records map[uint64]*model.Record
	byOwner map[string][]uint64
	nextID  uint64
	now     func() time.Time
}

// Option applies a configuration option to the RecordStore.
type Option func(*RecordStore)

// WithNow overrides the store's clock. Used by tests and by embedders that
// need deterministic time.
func WithNow(now func() time.Time) Option {
	return func(s *RecordStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRecordStore constructs an empty record store with configuration options.
func NewRecordStore(opts ...Option) *RecordStore {
	s := &RecordStore{
		records: make(map[uint64]*model.Record),
		byOwner: make(map[string][]uint64),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates the submission and stores a new record, returning a copy.
// On any validation failure nothing is stored.
func (s *RecordStore) Create(ctx context.Context, owner, label string, targetTime time.Time, handles model.HandlePair) (model.Record, error) {
	now := s.now()

	switch {
	case owner == "":
		return model.Record{}, fmt.Errorf("owner must not be empty: %w", ErrValidation)
	case len(label) < minLabelLength || len(label) > maxLabelLength:
		return model.Record{}, fmt.Errorf("label length %d outside [%d, %d]: %w",
			len(label), minLabelLength, maxLabelLength, ErrValidation)
	case !targetTime.After(now):
		return model.Record{}, fmt.Errorf("target time %s is not in the future: %w",
			targetTime.Format(time.RFC3339), ErrValidation)
	case targetTime.After(now.Add(maxHorizon)):
		return model.Record{}, fmt.Errorf("target time %s is more than a year out: %w",
			targetTime.Format(time.RFC3339), ErrValidation)
	case !handles.Complete():
		return model.Record{}, fmt.Errorf("both encrypted-value handles are required: %w", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &model.Record{
		ID:             s.nextID,
		Owner:          owner,
		Label:          label,
		TargetTime:     targetTime,
		SubmissionTime: now,
		Active:         true,
		Handles:        handles,
	}
	s.nextID++
	s.records[rec.ID] = rec
	s.byOwner[owner] = append(s.byOwner[owner], rec.ID)

	metrics.UpdateRecordsTotal(len(s.records))
	return *rec, nil
}

// Get returns a copy of the record with the given id.
func (s *RecordStore) Get(ctx context.Context, id uint64) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		metrics.RecordErrorByComponent("records", "not_found")
		return model.Record{}, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return *rec, nil
}

// ListByOwner returns the ids submitted by owner in insertion order.
// Unknown owners get an empty slice, not an error.
func (s *RecordStore) ListByOwner(ctx context.Context, owner string) []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byOwner[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// MarkRevealed flips the one-way revealed flag for a record.
func (s *RecordStore) MarkRevealed(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	rec.Revealed = true
	return nil
}

// Count returns the total number of stored records.
func (s *RecordStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Now reports the store's current clock reading.
func (s *RecordStore) Now() time.Time {
	return s.now()
}
