package lanyard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/nowcard/internal/core/feed"
)

// ErrUserNotMonitored is returned when Lanyard does not track the user. The
// user has to join the Lanyard Discord server first.
var ErrUserNotMonitored = errors.New("user is not monitored by lanyard")

// maxResponseSize caps a REST response. One presence is a few kilobytes.
const maxResponseSize = 1 << 20

// APIError is an error response from the REST API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lanyard: status %d: %s", e.Status, e.Code)
	}
	return fmt.Sprintf("lanyard: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Is matches ErrUserNotMonitored for the user_not_monitored code.
func (e *APIError) Is(target error) bool {
	return target == ErrUserNotMonitored && e.Code == "user_not_monitored"
}

type response struct {
	Success bool     `json:"success"`
	Data    Presence `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client fetches presence snapshots over the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the REST API rooted at baseURL
// (e.g. https://api.lanyard.rest/v1).
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch returns the current snapshot for userID.
func (c *Client) Fetch(ctx context.Context, userID string) (feed.Snapshot, error) {
	if userID == "" {
		return feed.Snapshot{}, feed.ErrMissingUserID
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return feed.Snapshot{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return feed.Snapshot{}, fmt.Errorf("fetch presence: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return feed.Snapshot{}, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxResponseSize {
		return feed.Snapshot{}, fmt.Errorf("read response: body exceeds %d bytes", maxResponseSize)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return feed.Snapshot{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if !out.Success || resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode, Code: "unknown"}
		if out.Error != nil {
			apiErr.Code = out.Error.Code
			apiErr.Message = out.Error.Message
		}
		return feed.Snapshot{}, apiErr
	}

	c.logger.Debug().
		Str("user_id", userID).
		Str("status", out.Data.DiscordStatus).
		Int("activities", len(out.Data.Activities)).
		Msg("fetched presence")

	return out.Data.Snapshot(), nil
}
