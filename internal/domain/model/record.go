// Package model contains domain models passed between layers.
package model

import (
	"encoding/hex"
	"fmt"
	"time"
)

// HandleSize is the width of an encrypted-value handle in bytes.
// Handles are opaque tokens minted by the external encryption subsystem;
// this core only ever copies and compares them.
const HandleSize = 32

// MaxAccuracy is the upper bound of the accuracy scale: a percentage
// scaled by 100, so 10000 means a perfect prediction.
const MaxAccuracy = 10_000

// Handle is an opaque reference to an encrypted value.
type Handle [HandleSize]byte

// IsZero reports whether the handle is unset.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// String renders the handle as lowercase hex.
func (h Handle) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHandle decodes a hex-encoded handle token.
func ParseHandle(s string) (Handle, error) {
	var h Handle
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("malformed handle %q: %w", s, err)
	}
	if len(raw) != HandleSize {
		return h, fmt.Errorf("handle must be %d bytes, got %d", HandleSize, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// HandlePair carries the two handles attached to every prediction:
// the encrypted predicted value and the encrypted confidence.
type HandlePair struct {
	Value      Handle
	Confidence Handle
}

// Complete reports whether both handles are present.
func (p HandlePair) Complete() bool {
	return !p.Value.IsZero() && !p.Confidence.IsZero()
}

// Record is a stored prediction submission. Created by the record store,
// mutated only by the reveal processor, never deleted.
type Record struct {
	ID             uint64
	Owner          string
	Label          string
	TargetTime     time.Time
	SubmissionTime time.Time
	Revealed       bool
	// Active is reserved soft-delete state. Nothing in the current
	// lifecycle transitions it back to false.
	Active  bool
	Handles HandlePair
}

// Entry captures a revealed prediction's score used for ranking.
// Accuracy may be corrected at most once after creation, when the true
// decrypted comparison becomes available off-chain.
type Entry struct {
	RecordID    uint64
	ActualValue int64
	Accuracy    int64
	Corrected   bool
}
