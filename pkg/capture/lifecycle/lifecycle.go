// Package lifecycle models app-lifecycle transitions as an explicit event
// stream the capture core subscribes to, decoupled from any specific OS
// mechanism.
//
// The host application publishes Foreground, Background, and Terminate
// transitions; background transitions carry the OS-granted execution-time
// budget so a background flush can be bounded and aborted when the budget
// expires.
package lifecycle

import (
	"sync"
	"time"
)

// Kind identifies a lifecycle transition.
type Kind int

// Lifecycle transitions.
const (
	// Foreground means the app became active.
	Foreground Kind = iota

	// Background means the app was sent to the background.
	Background

	// Terminate means the app is about to exit.
	Terminate
)

// String returns the transition name.
func (k Kind) String() string {
	switch k {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Event is one lifecycle transition.
type Event struct {
	// Kind is the transition.
	Kind Kind

	// Budget is the execution-time budget granted for background work.
	// Zero means unbounded. Only meaningful for Background.
	Budget time.Duration
}

// Notifier fans lifecycle events out to subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the
// event.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is closed on unsubscribe or when the
// notifier is closed.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Event, 8)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
}

// Publish delivers an event to every subscriber without blocking.
func (n *Notifier) Publish(evt Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	for _, sub := range n.subs {
		select {
		case sub <- evt:
		default:
		}
	}
}

// Close shuts the notifier down and closes all subscriber channels.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, sub := range n.subs {
		delete(n.subs, id)
		close(sub)
	}
}
