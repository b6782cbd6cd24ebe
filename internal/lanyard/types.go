// Package lanyard adapts the Lanyard presence API (REST and websocket) to the
// feed interfaces.
package lanyard

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/hay-kot/nowcard/internal/core/activity"
	"github.com/hay-kot/nowcard/internal/core/feed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Presence is the presence payload shared by the REST and socket APIs.
type Presence struct {
	DiscordStatus string     `json:"discord_status"`
	DiscordUser   User       `json:"discord_user"`
	Activities    []Activity `json:"activities"`
}

// User is the discord_user object.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

// Activity is a single entry of the activities array.
type Activity struct {
	Type       int         `json:"type"`
	Name       string      `json:"name"`
	Details    string      `json:"details"`
	State      string      `json:"state"`
	URL        string      `json:"url"`
	Timestamps *Timestamps `json:"timestamps"`
	Party      *Party      `json:"party"`
}

// Timestamps holds unix millisecond start and end times.
type Timestamps struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Party holds the party id and [current, max] size.
type Party struct {
	ID   string `json:"id"`
	Size []int  `json:"size"`
}

// Snapshot converts the payload to a feed snapshot.
func (p Presence) Snapshot() feed.Snapshot {
	snap := feed.Snapshot{
		User: feed.User{
			ID:         p.DiscordUser.ID,
			Username:   p.DiscordUser.Username,
			GlobalName: p.DiscordUser.GlobalName,
			Avatar:     p.DiscordUser.Avatar,
		},
		Status:     p.DiscordStatus,
		Activities: make([]activity.Activity, 0, len(p.Activities)),
	}

	for _, a := range p.Activities {
		snap.Activities = append(snap.Activities, a.toActivity())
	}

	return snap
}

func (a Activity) toActivity() activity.Activity {
	out := activity.Activity{
		Kind:    activity.Kind(a.Type),
		Name:    a.Name,
		Details: a.Details,
		State:   a.State,
		URL:     a.URL,
	}

	if a.Timestamps != nil && a.Timestamps.Start > 0 {
		out.Start = time.UnixMilli(a.Timestamps.Start)
	}

	if a.Party != nil && len(a.Party.Size) == 2 {
		out.Party = &activity.Party{Current: a.Party.Size[0], Max: a.Party.Size[1]}
	}

	return out
}
