package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Signal classifies an advisory broadcast emitted by the client.
// Signals are cross-cutting notifications, not call-scoped errors: the
// failing call still gets its error return, and any other interested
// consumer (status bar, login redirect) reacts to the broadcast.
type Signal string

const (
	// SignalUnauthorized fires when a 401 clears the stored token.
	SignalUnauthorized Signal = "unauthorized"

	// SignalServerUnavailable fires when a 5xx survives the retry
	// policy.
	SignalServerUnavailable Signal = "server-unavailable"

	// SignalNetworkUnavailable fires when no response was received.
	SignalNetworkUnavailable Signal = "network-unavailable"
)

// Event is a single advisory broadcast.
type Event struct {
	// ID uniquely identifies the event for dedup/logging.
	ID string

	Signal Signal

	// Resource names the API resource whose request triggered the
	// event, e.g. "tasks".
	Resource string

	// Err is the underlying failure, if any.
	Err error

	At time.Time
}

// Broadcaster fans advisory events out to subscribers. Sends never
// block: a subscriber that stops draining its channel misses events
// rather than stalling the client.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns its event channel plus
// an unsubscribe function. The channel is buffered with the given size.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.next
	b.next++
	ch := make(chan Event, buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish broadcasts an event to all subscribers without blocking.
func (b *Broadcaster) Publish(sig Signal, resource string, err error) {
	ev := Event{
		ID:       uuid.NewString(),
		Signal:   sig,
		Resource: resource,
		Err:      err,
		At:       time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not draining; drop rather than block.
		}
	}
}
