// Package reveal drives the reveal lifecycle: it guards state transitions,
// scores revealed predictions, and keeps the leaderboard in sync with every
// accuracy change.
package reveal

import (
	"context"
	"fmt"
	"time"

	"github.com/veilcast/veilcast/internal/adapters/repository"
	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/internal/domain/scoring"
	"github.com/veilcast/veilcast/pkg/metrics"
)

// Processor coordinates the reveal flow for a record: verify the record is
// due, score it, place it on the board, and persist the reveal entry. A
// record passes through the processor at most once; a single accuracy
// correction may follow.
type Processor struct {
	records *repository.RecordStore
	board   *repository.Board
	scorer  scoring.Scorer
	entries map[uint64]*model.Entry
	now     func() time.Time
}

// Option applies a configuration option to a processor.
type Option func(*Processor)

// WithScorer overrides the scorer used at reveal time.
func WithScorer(s scoring.Scorer) Option {
	return func(p *Processor) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor creates a reveal processor over the given store and board.
func NewProcessor(records *repository.RecordStore, board *repository.Board, opts ...Option) *Processor {
	p := &Processor{
		records: records,
		board:   board,
		scorer:  scoring.NewBaseline(),
		entries: make(map[uint64]*model.Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Reveal scores record id against actualValue and inserts it into the
// leaderboard. The record must exist, be active, not yet revealed, and its
// target time must have passed. On any failure the record, the board, and
// the entry set are left untouched.
func (p *Processor) Reveal(ctx context.Context, id uint64, actualValue int64) (model.Entry, error) {
	started := p.now()

	rec, err := p.records.Get(ctx, id)
	if err != nil {
		return model.Entry{}, err
	}
	if !rec.Active {
		return model.Entry{}, fmt.Errorf("record %d is not active: %w", id, ErrInvalidState)
	}
	if rec.Revealed {
		return model.Entry{}, fmt.Errorf("record %d already revealed: %w", id, ErrInvalidState)
	}
	if p.now().Before(rec.TargetTime) {
		return model.Entry{}, fmt.Errorf("record %d not due until %s: %w", id, rec.TargetTime.Format(time.RFC3339), ErrInvalidState)
	}

	res, err := p.scorer.Score(ctx, scoring.Input{
		RecordID:    id,
		Handles:     rec.Handles,
		ActualValue: actualValue,
	})
	if err != nil {
		metrics.RecordScoringError()
		return model.Entry{}, fmt.Errorf("score record %d: %w", id, err)
	}

	// Board insertion before the revealed flag flips: a duplicate or range
	// failure here must leave the record still revealable.
	if err := p.board.Insert(ctx, id, res.Accuracy, rec.SubmissionTime); err != nil {
		return model.Entry{}, fmt.Errorf("insert record %d into board: %w", id, err)
	}
	if err := p.records.MarkRevealed(ctx, id); err != nil {
		return model.Entry{}, err
	}

	entry := &model.Entry{
		RecordID:    id,
		ActualValue: actualValue,
		Accuracy:    res.Accuracy,
	}
	p.entries[id] = entry

	metrics.RecordReveal()
	metrics.RecordRevealLatency(float64(p.now().Sub(started).Milliseconds()))
	metrics.UpdateBoardSize(p.board.Len(ctx))

	return *entry, nil
}

// UpdateAccuracy replaces the accuracy of an already revealed record and
// repositions it on the board. Each entry may be corrected exactly once.
func (p *Processor) UpdateAccuracy(ctx context.Context, id uint64, accuracy int64) (model.Entry, error) {
	if accuracy < 0 || accuracy > model.MaxAccuracy {
		return model.Entry{}, fmt.Errorf("accuracy %d outside [0, %d]: %w", accuracy, model.MaxAccuracy, repository.ErrValidation)
	}

	entry, ok := p.entries[id]
	if !ok {
		return model.Entry{}, fmt.Errorf("record %d has no reveal entry: %w", id, ErrInvalidState)
	}
	if entry.Corrected {
		return model.Entry{}, fmt.Errorf("record %d already corrected: %w", id, ErrInvalidState)
	}

	if err := p.board.Reinsert(ctx, id, accuracy); err != nil {
		return model.Entry{}, fmt.Errorf("reposition record %d: %w", id, err)
	}

	entry.Accuracy = accuracy
	entry.Corrected = true
	metrics.RecordAccuracyCorrection()

	return *entry, nil
}

// Entry returns the reveal entry for id, if the record has been revealed.
func (p *Processor) Entry(ctx context.Context, id uint64) (model.Entry, bool) {
	e, ok := p.entries[id]
	if !ok {
		return model.Entry{}, false
	}
	return *e, true
}
