// Package notify publishes best-effort lifecycle notifications. Events are
// queued on a bounded channel and dispatched to an in-process event bus by a
// single background goroutine; when the queue is full the event is dropped
// rather than blocking the caller.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"

	"github.com/veilcast/veilcast/pkg/logger"
	"github.com/veilcast/veilcast/pkg/metrics"
)

// Topics published on the bus.
const (
	TopicRecordCreated  = "record.created"
	TopicRecordRevealed = "record.revealed"
)

const defaultCapacity = 1024

// RecordCreated announces a newly stored prediction record.
type RecordCreated struct {
	RecordID   uint64
	Owner      string
	Label      string
	TargetTime time.Time
}

// RecordRevealed announces a scored reveal.
type RecordRevealed struct {
	RecordID    uint64
	Accuracy    int64
	ActualValue int64
}

type event struct {
	topic   string
	payload any
}

// Notifier fans lifecycle events out to bus subscribers without ever
// blocking or failing the mutation that produced them.
type Notifier struct {
	bus      EventBus.Bus
	capacity int

	queue chan event
	done  chan struct{}

	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a notifier with configuration options. Call Start before
// publishing and Close when done.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		bus:      EventBus.New(),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.queue = make(chan event, n.capacity)
	n.done = make(chan struct{})
	metrics.UpdateNotifyQueueCapacity(n.capacity)
	return n
}

// Start launches the dispatcher goroutine. Calling Start twice is a no-op.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started || n.closed {
		return
	}
	n.started = true
	go n.dispatch(ctx)
}

func (n *Notifier) dispatch(ctx context.Context) {
	defer close(n.done)
	for {
		select {
		case ev, ok := <-n.queue:
			if !ok {
				return
			}
			n.bus.Publish(ev.topic, ev.payload)
			metrics.RecordNotifyPublished(ev.topic)
			metrics.UpdateNotifyQueueSize(len(n.queue))
		case <-ctx.Done():
			return
		}
	}
}

// PublishCreated queues a record-created event.
func (n *Notifier) PublishCreated(ctx context.Context, ev RecordCreated) {
	n.publish(ctx, event{topic: TopicRecordCreated, payload: ev})
}

// PublishRevealed queues a record-revealed event.
func (n *Notifier) PublishRevealed(ctx context.Context, ev RecordRevealed) {
	n.publish(ctx, event{topic: TopicRecordRevealed, payload: ev})
}

func (n *Notifier) publish(ctx context.Context, ev event) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		logger.Get().Debug(ctx, "dropping notification after close",
			logger.String("topic", ev.topic))
		return
	}
	select {
	case n.queue <- ev:
		metrics.UpdateNotifyQueueSize(len(n.queue))
	default:
		metrics.RecordNotifyDropped(ev.topic)
		logger.Get().Warn(ctx, "notification queue full, dropping event",
			logger.String("topic", ev.topic))
	}
	n.mu.Unlock()
}

// SubscribeCreated registers a handler for record-created events.
// Handlers run synchronously on the dispatcher goroutine.
func (n *Notifier) SubscribeCreated(fn func(RecordCreated)) error {
	return n.bus.Subscribe(TopicRecordCreated, fn)
}

// SubscribeRevealed registers a handler for record-revealed events.
func (n *Notifier) SubscribeRevealed(fn func(RecordRevealed)) error {
	return n.bus.Subscribe(TopicRecordRevealed, fn)
}

// Close stops accepting events and waits for the dispatcher to drain the
// queue.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	started := n.started
	close(n.queue)
	n.mu.Unlock()
	if started {
		<-n.done
	}
}
