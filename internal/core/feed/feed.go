// Package feed defines the presence snapshot delivered by a live feed and the
// interfaces feed adapters implement.
package feed

import (
	"context"
	"errors"

	"github.com/hay-kot/nowcard/internal/core/activity"
)

// ErrMissingUserID is returned when a feed is asked about an empty user id.
var ErrMissingUserID = errors.New("user id is required")

// User identifies the user a snapshot belongs to.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// DisplayName returns the global name, falling back to the username.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Snapshot is the complete presence of one user at one point in time.
type Snapshot struct {
	User       User                `json:"user"`
	Status     string              `json:"status"`
	Activities []activity.Activity `json:"activities"`
}

// Fetcher retrieves a single snapshot on demand.
type Fetcher interface {
	Fetch(ctx context.Context, userID string) (Snapshot, error)
}

// Source delivers a snapshot on connect and on every change. The channel is
// closed when ctx is cancelled.
type Source interface {
	Subscribe(ctx context.Context, userID string) (<-chan Snapshot, error)
}
