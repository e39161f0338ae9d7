package notify

import "github.com/asaskevich/EventBus"

// Option applies a configuration option to a notifier.
type Option func(*Notifier)

// WithCapacity sets the size of the bounded event queue.
func WithCapacity(n int) Option {
	return func(nt *Notifier) {
		if n > 0 {
			nt.capacity = n
		}
	}
}

// WithBus injects a shared event bus instead of a private one.
func WithBus(bus EventBus.Bus) Option {
	return func(nt *Notifier) {
		if bus != nil {
			nt.bus = bus
		}
	}
}
