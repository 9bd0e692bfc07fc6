package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// WebhookPoster posts to a Discord-compatible webhook.
type WebhookPoster struct {
	httpClient *http.Client
	url        string
}

// WebhookConfig holds configuration for the webhook poster.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// NewWebhookPoster creates a new webhook poster.
func NewWebhookPoster(cfg WebhookConfig) *WebhookPoster {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &WebhookPoster{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: cfg.URL,
	}
}

// Platform returns the platform name.
func (w *WebhookPoster) Platform() string {
	return "webhook"
}

// webhookMessage is the request body for executing a webhook.
type webhookMessage struct {
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// webhookResponse is the created message, returned when wait=true.
type webhookResponse struct {
	ID string `json:"id"`
}

// ValidateCredentials fetches the webhook to check the URL and token.
func (w *WebhookPoster) ValidateCredentials(ctx context.Context) error {
	if w.url == "" {
		return fmt.Errorf("webhook url is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook check failed (status %d)", resp.StatusCode)
	}
	return nil
}

// Post relays content through the webhook.
func (w *WebhookPoster) Post(ctx context.Context, content PostContent) (*PostResult, error) {
	if content.Text == "" {
		return nil, fmt.Errorf("post content is empty")
	}

	text := content.Text
	if !FitsInLimit(text, DiscordMaxLength) {
		text = TruncateQuote(text, DiscordMaxLength)
	}

	body, err := json.Marshal(webhookMessage{
		Content:   text,
		Username:  content.Username,
		AvatarURL: content.AvatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint, err := waitURL(w.url)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("post failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	result := &PostResult{}
	if len(bytes.TrimSpace(respBody)) > 0 {
		var created webhookResponse
		if err := json.Unmarshal(respBody, &created); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		result.PostID = created.ID
	}

	slog.Info("posted to webhook", "username", content.Username, "id", result.PostID)
	return result, nil
}

// waitURL asks the webhook to return the created message.
func waitURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}
	q := u.Query()
	q.Set("wait", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
