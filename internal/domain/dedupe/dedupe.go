// Package dedupe defines the interface for idempotency tracking.
//
// The ledger API accepts client-chosen submission ids so a retried
// create request does not mint a second record. The tracker keeps a
// bounded window of recently seen ids.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default tracker configuration constants.
const (
	defaultMaxSize = 50_000
)

// Deduper records seen submission ids to make request handling idempotent.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen set, allowing a retry. Use it
	// when a request was marked seen but the operation behind it failed.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// tracker implements Deduper with a map plus a fixed ring of ids for
// oldest-first eviction. maxSize <= 0 disables eviction entirely.
type tracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order, oldest at head
	head    int      // index of the oldest live slot when the ring is full
	maxSize int
	size    atomic.Int64
}

// NewTracker creates a new in-memory deduper with configuration options.
func NewTracker(opts ...Option) Deduper {
	d := &tracker{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *tracker) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			d.ring = append(d.ring, id)
		} else {
			// Ring is full: reclaim the oldest slot.
			old := d.ring[d.head]
			if old != "" {
				delete(d.seen, old)
				d.size.Add(-1)
			}
			d.ring[d.head] = id
			d.head = (d.head + 1) % d.maxSize
		}
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an id from the seen set, allowing it to be retried.
// The ring slot is left behind and lazily reclaimed on eviction.
func (d *tracker) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	for i := range d.ring {
		if d.ring[i] == id {
			d.ring[i] = ""
			break
		}
	}
}

// Size returns the current number of tracked ids.
func (d *tracker) Size() int64 {
	return d.size.Load()
}
