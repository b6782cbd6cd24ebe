package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/nowcard/internal/core/validate"
	"github.com/hay-kot/nowcard/pkg/tmpl"
)

// Config sections. Top level fields other than open_command describe the card.
const (
	SectionCard   = "card"
	SectionFeed   = "feed"
	SectionTUI    = "tui"
	SectionServer = "server"
)

// Section returns the section a field path such as "feed.socket_url" belongs to.
func Section(field string) string {
	if section, _, ok := strings.Cut(field, "."); ok {
		return section
	}
	if field == "open_command" {
		return SectionTUI
	}
	return SectionCard
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Item    string `json:"item,omitempty"`
	Message string `json:"message"`
}

// Validate checks that the configuration is valid. The returned error wraps
// criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.UserID != "" {
		if err := validate.UserID(c.UserID); err != nil {
			errs = errs.Append("user_id", err)
		}
	}

	if c.FallbackURL != "" {
		if err := checkURL(c.FallbackURL, "http", "https"); err != nil {
			errs = errs.Append("fallback_url", err)
		}
	}

	if err := tmpl.Parse(c.AvatarURL); err != nil {
		errs = errs.Append("avatar_url", err)
	}

	if c.OpenCommand != "" {
		if err := tmpl.Parse(c.OpenCommand); err != nil {
			errs = errs.Append("open_command", err)
		}
	}

	if err := checkURL(c.Feed.RESTURL, "http", "https"); err != nil {
		errs = errs.Append("feed.rest_url", err)
	}
	if err := checkURL(c.Feed.SocketURL, "ws", "wss"); err != nil {
		errs = errs.Append("feed.socket_url", err)
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"feed.request_timeout", c.Feed.RequestTimeout},
		{"feed.reconnect_delay", c.Feed.ReconnectDelay},
		{"tui.refresh_interval", c.TUI.RefreshInterval},
		{"server.cache_ttl", c.Server.CacheTTL},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = errs.Append(d.field, fmt.Errorf("must be positive, got %s", d.value))
		}
	}

	if c.Server.Addr == "" {
		errs = errs.Append("server.addr", fmt.Errorf("cannot be empty"))
	}

	return errs.ToError()
}

// Warnings returns non-fatal issues with the configuration.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.UserID == "" {
		warnings = append(warnings, ValidationWarning{
			Item:    "user_id",
			Message: "no user_id set; pass --user-id or set NOWCARD_USER_ID",
		})
	}

	if c.OpenCommand == "" {
		warnings = append(warnings, ValidationWarning{
			Item:    "open_command",
			Message: "no open_command set; links cannot be opened from the live card",
		})
	}

	if c.TUI.RefreshInterval > time.Minute {
		warnings = append(warnings, ValidationWarning{
			Item:    "tui.refresh_interval",
			Message: fmt.Sprintf("refresh_interval of %s makes the elapsed counter lag behind", c.TUI.RefreshInterval),
		})
	}

	return warnings
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("url %q must use one of %v", raw, schemes)
}
