package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/veilcast/veilcast/internal/domain/model"
)

func testHandles() model.HandlePair {
	var p model.HandlePair
	p.Value[0] = 0x01
	p.Confidence[0] = 0x02
	return p
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestRecordStore_Create(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))

	rec, err := store.Create(ctx, "0xowner", "eth close friday", base.Add(48*time.Hour), testHandles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != 0 {
		t.Errorf("expected first id 0, got %d", rec.ID)
	}
	if rec.Revealed {
		t.Error("new record must not be revealed")
	}
	if !rec.Active {
		t.Error("new record must be active")
	}
	if !rec.SubmissionTime.Equal(base) {
		t.Errorf("expected submission time %v, got %v", base, rec.SubmissionTime)
	}

	// Ids are sequential.
	rec2, err := store.Create(ctx, "0xowner", "btc close friday", base.Add(24*time.Hour), testHandles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.ID != 1 {
		t.Errorf("expected second id 1, got %d", rec2.ID)
	}

	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestRecordStore_LabelBoundaries(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))
	target := base.Add(time.Hour)

	cases := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{"empty label", "", true},
		{"single char", "x", false},
		{"exactly 100", strings.Repeat("a", 100), false},
		{"101 chars", strings.Repeat("a", 101), true},
	}

	for _, tc := range cases {
		_, err := store.Create(ctx, "0xowner", tc.label, target, testHandles())
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestRecordStore_TargetTimeBoundaries(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))
	horizon := base.Add(365 * 24 * time.Hour)

	cases := []struct {
		name    string
		target  time.Time
		wantErr bool
	}{
		{"in the past", base.Add(-time.Second), true},
		{"exactly now", base, true},
		{"one second ahead", base.Add(time.Second), false},
		{"exactly one year out", horizon, false},
		{"one second past the horizon", horizon.Add(time.Second), true},
	}

	for _, tc := range cases {
		_, err := store.Create(ctx, "0xowner", "label", tc.target, testHandles())
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestRecordStore_HandlePresence(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))

	var missing model.HandlePair
	missing.Value[0] = 0x01 // confidence handle left zero

	if _, err := store.Create(ctx, "0xowner", "label", base.Add(time.Hour), missing); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for incomplete handles, got %v", err)
	}

	// Failed create must leave no partial state behind.
	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected empty store after failed create, got %d records", count)
	}
	if ids := store.ListByOwner(ctx, "0xowner"); len(ids) != 0 {
		t.Errorf("expected no owner index entries, got %v", ids)
	}
}

func TestRecordStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	if _, err := store.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordStore_ListByOwner(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))
	target := base.Add(time.Hour)

	if ids := store.ListByOwner(ctx, "0xnobody"); len(ids) != 0 {
		t.Errorf("expected empty list for unknown owner, got %v", ids)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, "0xalice", "label", target, testHandles()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := store.Create(ctx, "0xbob", "label", target, testHandles()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := store.ListByOwner(ctx, "0xalice")
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids for alice, got %d", len(ids))
	}
	for i, id := range ids {
		if id != uint64(i) {
			t.Errorf("expected insertion order [0 1 2], got %v", ids)
			break
		}
	}
}

func TestRecordStore_MarkRevealed(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewRecordStore(WithNow(fixedClock(base)))

	rec, err := store.Create(ctx, "0xowner", "label", base.Add(time.Hour), testHandles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.MarkRevealed(ctx, rec.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Revealed {
		t.Error("expected record to be revealed")
	}

	if err := store.MarkRevealed(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
