package notify

import "context"

// Notification represents a notification message.
type Notification struct {
	Subject string
	Body    string
}

// Notifier is the interface for sending notifications.
type Notifier interface {
	// Send sends a notification.
	Send(ctx context.Context, notification Notification) error
}

// Multi fans a notification out to several notifiers. Every notifier is
// tried; the first error is returned.
type Multi []Notifier

// Send sends the notification to every notifier.
func (m Multi) Send(ctx context.Context, notification Notification) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, notification); err != nil && first == nil {
			first = err
		}
	}
	return first
}
