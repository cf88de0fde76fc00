package streaming

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the cross-view event. There is exactly one: a write
// happened. No delta is transmitted; consumers re-read full state from
// the stores on receipt.
type EventType string

const EventTypeWrite EventType = "write"

// WriteEvent is the signal broadcast after any successful store
// mutation. Delivery is best effort and same-device only; a missed
// event is not redelivered.
type WriteEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWriteEvent creates a write event
func NewWriteEvent() *WriteEvent {
	return &WriteEvent{
		ID:        uuid.New().String(),
		Type:      EventTypeWrite,
		Timestamp: time.Now(),
	}
}
