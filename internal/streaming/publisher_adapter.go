package streaming

import (
	"context"
)

// NotifierPublisher implements services.WritePublisher by fanning the
// write signal out to both the in-process notifier and connected views.
type NotifierPublisher struct {
	notifier *Notifier
	wsHub    *WebSocketHub
}

// NewNotifierPublisher creates a new publisher adapter
func NewNotifierPublisher(notifier *Notifier, wsHub *WebSocketHub) *NotifierPublisher {
	return &NotifierPublisher{
		notifier: notifier,
		wsHub:    wsHub,
	}
}

// PublishWrite broadcasts the "a write happened" signal
func (p *NotifierPublisher) PublishWrite(ctx context.Context) {
	event := NewWriteEvent()

	if p.notifier != nil {
		p.notifier.Publish(ctx, event)
	}

	if p.wsHub != nil {
		p.wsHub.BroadcastEvent(event)
	}
}
