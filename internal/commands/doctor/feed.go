package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/core/validate"
	"github.com/hay-kot/nowcard/internal/lanyard"
)

// FeedCheck verifies the presence feed is reachable and monitors the user.
type FeedCheck struct {
	fetcher feed.Fetcher
	userID  string
}

// NewFeedCheck creates a new presence feed check.
func NewFeedCheck(fetcher feed.Fetcher, userID string) *FeedCheck {
	return &FeedCheck{fetcher: fetcher, userID: userID}
}

func (c *FeedCheck) Name() string {
	return "Presence Feed"
}

func (c *FeedCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.userID == "" {
		result.add("User id", StatusWarn, "not configured, skipping feed check")
		return result
	}

	if err := validate.UserID(c.userID); err != nil {
		result.add("User id", StatusFail, err.Error())
		return result
	}

	snap, err := c.fetcher.Fetch(ctx, c.userID)
	switch {
	case errors.Is(err, lanyard.ErrUserNotMonitored):
		result.add("User monitored", StatusFail, "join the Lanyard Discord server so your presence is tracked")
		return result
	case err != nil:
		result.add("Feed reachable", StatusFail, err.Error())
		return result
	}

	result.add("Feed reachable", StatusPass, "")

	current := card.New(snap, time.Now(), card.Options{})
	result.add("User monitored", StatusPass, fmt.Sprintf("%s (%s)", current.Name, current.Presence.Label()))

	return result
}
