// Package config handles configuration loading and validation for nowcard.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/nowcard/internal/core/card"
)

// Config holds the application configuration.
type Config struct {
	// UserID is the Discord user whose presence is shown.
	UserID      string       `yaml:"user_id"`
	FallbackURL string       `yaml:"fallback_url"`
	AvatarURL   string       `yaml:"avatar_url"`
	OpenCommand string       `yaml:"open_command"`
	Feed        FeedConfig   `yaml:"feed"`
	TUI         TUIConfig    `yaml:"tui"`
	Server      ServerConfig `yaml:"server"`
}

// FeedConfig holds presence feed settings.
type FeedConfig struct {
	RESTURL        string        `yaml:"rest_url"`
	SocketURL      string        `yaml:"socket_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// TUIConfig holds settings for the live terminal card.
type TUIConfig struct {
	// RefreshInterval is how often the elapsed counters are redrawn.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Addr     string        `yaml:"addr"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AvatarURL:   card.DefaultAvatarURL,
		OpenCommand: "xdg-open {{ .URL | shq }}",
		Feed: FeedConfig{
			RESTURL:        "https://api.lanyard.rest/v1",
			SocketURL:      "wss://api.lanyard.rest/socket",
			RequestTimeout: 10 * time.Second,
			ReconnectDelay: 5 * time.Second,
		},
		TUI: TUIConfig{
			RefreshInterval: time.Second,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			CacheTTL: 15 * time.Second,
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.AvatarURL == "" {
		c.AvatarURL = defaults.AvatarURL
	}
	if c.Feed.RESTURL == "" {
		c.Feed.RESTURL = defaults.Feed.RESTURL
	}
	if c.Feed.SocketURL == "" {
		c.Feed.SocketURL = defaults.Feed.SocketURL
	}
	if c.Feed.RequestTimeout == 0 {
		c.Feed.RequestTimeout = defaults.Feed.RequestTimeout
	}
	if c.Feed.ReconnectDelay == 0 {
		c.Feed.ReconnectDelay = defaults.Feed.ReconnectDelay
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = defaults.TUI.RefreshInterval
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = defaults.Server.CacheTTL
	}
}

// CardOptions returns the card options derived from the configuration.
func (c *Config) CardOptions() card.Options {
	return card.Options{
		AvatarURL:   c.AvatarURL,
		FallbackURL: c.FallbackURL,
	}
}
