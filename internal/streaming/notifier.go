package streaming

import (
	"context"
	"strconv"
	"sync"

	"mzansishield/pkg/logger"
)

// Notifier fans write events out to subscribers within the process.
// Same-device delivery only: no retry, no redelivery for listeners
// attached after the fact.
type Notifier struct {
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]chan *WriteEvent
	nextID      int
}

// NewNotifier creates a new notifier
func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{
		logger:      log.WithComponent("notifier"),
		subscribers: make(map[string]chan *WriteEvent),
	}
}

// Publish broadcasts an event to all current subscribers. A subscriber
// whose channel is full simply misses the event.
func (n *Notifier) Publish(_ context.Context, event *WriteEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for id, ch := range n.subscribers {
		select {
		case ch <- event:
		default:
			n.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel
// plus an unsubscribe function.
func (n *Notifier) Subscribe() (<-chan *WriteEvent, func()) {
	n.mu.Lock()
	n.nextID++
	id := strconv.Itoa(n.nextID)
	ch := make(chan *WriteEvent, 16)
	n.subscribers[id] = ch
	n.mu.Unlock()

	n.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subscribers[id]; ok {
			close(ch)
			delete(n.subscribers, id)
			n.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
		}
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Close closes the notifier and all subscriber channels
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subscribers {
		close(ch)
		delete(n.subscribers, id)
	}
}
