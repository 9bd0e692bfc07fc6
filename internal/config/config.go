package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Exported artifacts
	ChampionsPath string
	QuotesPath    string

	// VecLite
	VecLitePath string // Path to VecLite database (default: data/quotes.veclite)

	// Upstream sources
	WikiBaseURL    string
	DDragonBaseURL string

	// Fetching
	FetchConcurrency int
	HTTPTimeout      time.Duration

	// Scheduler settings
	RefreshInterval time.Duration

	// HTTP server
	ListenAddr string

	// Discord-compatible webhook for posting quotes and notifications
	WebhookURL string

	// Logging
	LogLevel string
	LogFile  string // Optional rotating log file
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "data/lolquotes.db"),
		ChampionsPath:  getEnv("CHAMPIONS_PATH", "data/champions.json"),
		QuotesPath:     getEnv("QUOTES_PATH", "data/quotes.json"),
		VecLitePath:    getEnv("VECLITE_PATH", "data/quotes.veclite"),
		WikiBaseURL:    getEnv("WIKI_BASE_URL", "https://leagueoflegends.fandom.com/wiki"),
		DDragonBaseURL: getEnv("DDRAGON_BASE_URL", "https://ddragon.leagueoflegends.com"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}

	// Parse durations
	var err error
	cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg.RefreshInterval, err = time.ParseDuration(getEnv("REFRESH_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}

	// Parse integers
	concurrency, err := strconv.Atoi(getEnv("FETCH_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("invalid FETCH_CONCURRENCY: must be at least 1, got %d", concurrency)
	}
	cfg.FetchConcurrency = concurrency

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForUpdate checks configuration needed to refresh roster and quotes.
func (c *Config) ValidateForUpdate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.WikiBaseURL == "" {
		return fmt.Errorf("WIKI_BASE_URL is required for updating")
	}
	if c.DDragonBaseURL == "" {
		return fmt.Errorf("DDRAGON_BASE_URL is required for updating")
	}
	if c.QuotesPath == "" {
		return fmt.Errorf("QUOTES_PATH is required for updating")
	}
	return nil
}

// ValidateForVecLite checks configuration needed for VecLite.
func (c *Config) ValidateForVecLite() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.VecLitePath == "" {
		return fmt.Errorf("VECLITE_PATH is required")
	}
	return nil
}

// ValidateForUsers checks configuration needed to read and change user
// preferences.
func (c *Config) ValidateForUsers() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.QuotesPath == "" {
		return fmt.Errorf("QUOTES_PATH is required for user preferences")
	}
	return nil
}

// ValidateForPosting checks configuration needed for posting.
func (c *Config) ValidateForPosting() error {
	if c.QuotesPath == "" {
		return fmt.Errorf("QUOTES_PATH is required for posting")
	}
	if c.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required for posting")
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForUpdate(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required for serve")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
