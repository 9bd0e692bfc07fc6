// Package ddragon reads the champion roster from Riot's Data Dragon CDN.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://ddragon.leagueoflegends.com"

	versionsPath  = "/api/versions.json"
	championsPath = "/cdn/%s/data/en_US/champion.json"
	iconPath      = "/cdn/%s/img/champion/%s"
)

// Champion is the roster entry the rest of the tool works with.
type Champion struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Icon string `json:"icon"`
}

// WikiName returns the page name used on the wiki. Names joining two
// characters ("Nunu & Willump") live under the champion id.
func (c Champion) WikiName() string {
	if strings.Contains(c.Name, "&") {
		return c.ID
	}
	return c.Name
}

// Client fetches roster data from Data Dragon.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Config holds configuration for the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates a new Data Dragon client.
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

// championData is the subset of champion.json we read.
type championData struct {
	Version string                    `json:"version"`
	Data    map[string]championRecord `json:"data"`
}

type championRecord struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Image struct {
		Full string `json:"full"`
	} `json:"image"`
}

// LatestVersion returns the newest game version.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.baseURL+versionsPath, &versions); err != nil {
		return "", fmt.Errorf("fetch versions: %w", err)
	}

	if len(versions) == 0 {
		return "", fmt.Errorf("no versions found")
	}

	return versions[0], nil
}

// Champions returns every champion for a game version, sorted by name.
func (c *Client) Champions(ctx context.Context, version string) ([]Champion, error) {
	var data championData
	if err := c.getJSON(ctx, c.baseURL+fmt.Sprintf(championsPath, version), &data); err != nil {
		return nil, fmt.Errorf("fetch champions: %w", err)
	}

	champions := make([]Champion, 0, len(data.Data))
	for _, record := range data.Data {
		champions = append(champions, Champion{
			Name: record.Name,
			ID:   record.ID,
			Icon: c.baseURL + fmt.Sprintf(iconPath, version, record.Image.Full),
		})
	}

	sort.Slice(champions, func(i, j int) bool {
		return champions[i].Name < champions[j].Name
	})

	slog.Debug("fetched champions", "version", version, "count", len(champions))
	return champions, nil
}

// Roster fetches the champions of the latest version.
func (c *Client) Roster(ctx context.Context) (string, []Champion, error) {
	version, err := c.LatestVersion(ctx)
	if err != nil {
		return "", nil, err
	}

	champions, err := c.Champions(ctx, version)
	if err != nil {
		return "", nil, err
	}

	return version, champions, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("data dragon returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
