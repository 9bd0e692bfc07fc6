// Package wiki downloads raw champion audio pages from the League of Legends wiki.
package wiki

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultBaseURL = "https://leagueoflegends.fandom.com/wiki"

	audioPath = "/%s/LoL/Audio?action=raw"
)

// Fetcher returns the raw markup of a champion's audio page.
type Fetcher interface {
	FetchAudioPage(ctx context.Context, name string) (string, error)
}

// Client fetches pages over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Config holds configuration for the wiki client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new wiki client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// PageURL returns the raw audio page URL for a wiki page name.
func (c *Client) PageURL(name string) string {
	page := url.PathEscape(strings.ReplaceAll(name, " ", "_"))
	return c.baseURL + fmt.Sprintf(audioPath, page)
}

// FetchAudioPage downloads the raw markup for name. A body that is not valid
// UTF-8 is treated as an empty page.
func (c *Client) FetchAudioPage(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.PageURL(name), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wiki returned status %d for %s", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	if !utf8.Valid(body) {
		slog.Warn("audio page is not valid UTF-8, ignoring", "champion", name)
		return "", nil
	}

	return string(body), nil
}
