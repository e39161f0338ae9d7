package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishCreated(t *testing.T) {
	ctx := context.Background()
	n := New(WithCapacity(8))

	var (
		mu  sync.Mutex
		got []RecordCreated
	)
	require.NoError(t, n.SubscribeCreated(func(ev RecordCreated) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	}))

	n.Start(ctx)
	n.PublishCreated(ctx, RecordCreated{RecordID: 7, Owner: "alice", Label: "btc-close"})
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].RecordID)
	assert.Equal(t, "alice", got[0].Owner)
}

func TestNotifier_PublishRevealed(t *testing.T) {
	ctx := context.Background()
	n := New()

	done := make(chan RecordRevealed, 1)
	require.NoError(t, n.SubscribeRevealed(func(ev RecordRevealed) {
		done <- ev
	}))

	n.Start(ctx)
	defer n.Close()
	n.PublishRevealed(ctx, RecordRevealed{RecordID: 3, Accuracy: 9100, ActualValue: 42})

	select {
	case ev := <-done:
		assert.Equal(t, uint64(3), ev.RecordID)
		assert.Equal(t, int64(9100), ev.Accuracy)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for revealed event")
	}
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	ctx := context.Background()
	n := New(WithCapacity(1))

	// Never started: the queue holds one event, the rest are dropped.
	n.PublishCreated(ctx, RecordCreated{RecordID: 1})
	n.PublishCreated(ctx, RecordCreated{RecordID: 2})
	n.PublishCreated(ctx, RecordCreated{RecordID: 3})

	assert.Len(t, n.queue, 1)
	n.Close()
}

func TestNotifier_PublishAfterClose(t *testing.T) {
	ctx := context.Background()
	n := New()
	n.Start(ctx)
	n.Close()

	// Must not panic or block.
	n.PublishCreated(ctx, RecordCreated{RecordID: 1})
	n.Close()
}

func TestNotifier_CloseDrainsQueue(t *testing.T) {
	ctx := context.Background()
	n := New(WithCapacity(64))

	var (
		mu    sync.Mutex
		count int
	)
	require.NoError(t, n.SubscribeCreated(func(RecordCreated) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	for i := 0; i < 10; i++ {
		n.PublishCreated(ctx, RecordCreated{RecordID: uint64(i)})
	}
	n.Start(ctx)
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}
