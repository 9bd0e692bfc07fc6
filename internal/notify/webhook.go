package notify

import (
	"context"
	"fmt"

	"github.com/abdulachik/lolquotes/internal/poster"
)

const defaultUsername = "lolquotes"

// WebhookNotifier relays notifications through a poster.
type WebhookNotifier struct {
	poster   poster.Poster
	username string
}

// WebhookConfig holds configuration for webhook notifications.
type WebhookConfig struct {
	Poster   poster.Poster
	Username string // Display name of the notification sender
}

// NewWebhookNotifier creates a new webhook notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	username := cfg.Username
	if username == "" {
		username = defaultUsername
	}
	return &WebhookNotifier{
		poster:   cfg.Poster,
		username: username,
	}
}

// Send posts the notification.
func (w *WebhookNotifier) Send(ctx context.Context, notification Notification) error {
	_, err := w.poster.Post(ctx, poster.PostContent{
		Text:     poster.FormatNotification(notification.Subject, notification.Body),
		Username: w.username,
	})
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
