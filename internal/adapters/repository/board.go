package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veilcast/veilcast/internal/domain/model"
	"github.com/veilcast/veilcast/pkg/metrics"
)

// Board is the ordered index over revealed records.
//
// Ordering: accuracy DESC, then submission time ASC (earlier submission wins
// ties). Entries with equal accuracy and equal submission time keep their
// insertion order: the placement scan only moves past entries that strictly
// rank earlier, so a newcomer always lands after its exact peers.
//
// A single insertion positions only the new id inside an already-sorted
// sequence, one O(n) pass. The board is append-mostly and small enough that
// nothing fancier is warranted.
type Board struct {
	mu    sync.RWMutex
	order []uint64 // rank order, best first
	byID  map[uint64]boardRec
}

// boardRec stores the sort key the board maintains for each entry.
type boardRec struct {
	accuracy    int64
	submittedAt time.Time
}

// ranksBefore reports whether a ranks strictly earlier than b.
func ranksBefore(a, b boardRec) bool {
	if a.accuracy != b.accuracy {
		return a.accuracy > b.accuracy // higher accuracy ranks earlier
	}
	return a.submittedAt.Before(b.submittedAt) // earlier submission wins ties
}

// NewBoard constructs an empty leaderboard.
func NewBoard() *Board {
	return &Board{
		byID: make(map[uint64]boardRec),
	}
}

// Insert places id into rank order. Inserting an id that is already on the
// board is a programming error and fails with ErrDuplicateEntry.
func (b *Board) Insert(ctx context.Context, id uint64, accuracy int64, submittedAt time.Time) error {
	if accuracy < 0 || accuracy > model.MaxAccuracy {
		return fmt.Errorf("accuracy %d outside [0, %d]: %w", accuracy, model.MaxAccuracy, ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.byID[id]; exists {
		metrics.RecordErrorByComponent("board", "duplicate_entry")
		return fmt.Errorf("record %d already on the board: %w", id, ErrDuplicateEntry)
	}

	rec := boardRec{accuracy: accuracy, submittedAt: submittedAt}
	b.byID[id] = rec
	b.place(id, rec)

	metrics.RecordBoardInsert()
	metrics.UpdateBoardSize(len(b.order))
	return nil
}

// place inserts id at its rank position. Callers hold b.mu.
func (b *Board) place(id uint64, rec boardRec) {
	pos := len(b.order)
	for i, existing := range b.order {
		if ranksBefore(rec, b.byID[existing]) {
			pos = i
			break
		}
	}
	b.order = append(b.order, 0)
	copy(b.order[pos+1:], b.order[pos:])
	b.order[pos] = id
}

// Reinsert repositions an existing entry under a new accuracy, keeping its
// original submission time. Used after accuracy corrections so the ordering
// invariant survives the mutation.
func (b *Board) Reinsert(ctx context.Context, id uint64, accuracy int64) error {
	if accuracy < 0 || accuracy > model.MaxAccuracy {
		return fmt.Errorf("accuracy %d outside [0, %d]: %w", accuracy, model.MaxAccuracy, ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, exists := b.byID[id]
	if !exists {
		return fmt.Errorf("record %d not on the board: %w", id, ErrNotFound)
	}

	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	rec.accuracy = accuracy
	b.byID[id] = rec
	b.place(id, rec)

	metrics.RecordBoardReinsert()
	return nil
}

// Rank returns the 1-based position of id, or 0 if it is not on the board.
func (b *Board) Rank(ctx context.Context, id uint64) int {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, existing := range b.order {
		if existing == id {
			return i + 1
		}
	}
	return 0
}

// Percentile returns the percentile of id on a 0-100 integer scale, floor
// division: ((total − rank + 1) × 100) / total. Absent ids and an empty
// board yield 0.
func (b *Board) Percentile(ctx context.Context, id uint64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := len(b.order)
	if total == 0 {
		return 0
	}

	rank := 0
	for i, existing := range b.order {
		if existing == id {
			rank = i + 1
			break
		}
	}
	if rank == 0 {
		return 0
	}

	return ((total - rank + 1) * 100) / total
}

// TopK returns up to limit ids in rank order, truncated when limit exceeds
// the board size.
func (b *Board) TopK(ctx context.Context, limit int) ([]uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("board", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit > len(b.order) {
		limit = len(b.order)
	}
	out := make([]uint64, limit)
	copy(out, b.order[:limit])
	return out, nil
}

// Accuracy returns the current accuracy the board holds for id.
func (b *Board) Accuracy(ctx context.Context, id uint64) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.byID[id]
	return rec.accuracy, ok
}

// Len returns the number of entries on the board.
func (b *Board) Len(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
