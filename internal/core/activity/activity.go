// Package activity models the concurrent activities reported for a user and
// resolves the single one shown on the card.
package activity

import (
	"fmt"
	"time"
)

// Kind is the type of an activity as reported by the feed.
type Kind int

const (
	KindPlaying   Kind = 0
	KindStreaming Kind = 1
	KindListening Kind = 2
	KindWatching  Kind = 3
	KindCustom    Kind = 4
	KindCompeting Kind = 5
)

// Normalize maps kinds this package does not know about to KindPlaying.
func (k Kind) Normalize() Kind {
	switch k {
	case KindPlaying, KindStreaming, KindListening, KindWatching, KindCustom, KindCompeting:
		return k
	default:
		return KindPlaying
	}
}

func (k Kind) String() string {
	switch k.Normalize() {
	case KindStreaming:
		return "streaming"
	case KindListening:
		return "listening"
	case KindWatching:
		return "watching"
	case KindCustom:
		return "custom"
	case KindCompeting:
		return "competing"
	default:
		return "playing"
	}
}

// Party is the (current, max) size of the group the user is in.
type Party struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Activity is one entry of a presence snapshot. Empty strings and a zero
// Start mean the field was not reported.
type Activity struct {
	Kind    Kind      `json:"kind"`
	Name    string    `json:"name"`
	Details string    `json:"details,omitempty"`
	State   string    `json:"state,omitempty"`
	Start   time.Time `json:"start,omitempty"`
	Party   *Party    `json:"party,omitempty"`
	URL     string    `json:"url,omitempty"`
}

// IsStreaming reports whether the activity is a stream.
func (a Activity) IsStreaming() bool {
	return a.Kind.Normalize() == KindStreaming
}

// stateWithParty returns the state followed by "(current of max)" when party
// data is present.
func (a Activity) stateWithParty() string {
	if a.Party == nil {
		return a.State
	}

	suffix := fmt.Sprintf("(%d of %d)", a.Party.Current, a.Party.Max)
	if a.State == "" {
		return suffix
	}
	return a.State + " " + suffix
}

// startOrEpoch returns Start, or the Unix epoch when no start was reported.
func (a Activity) startOrEpoch() time.Time {
	if a.Start.IsZero() {
		return time.UnixMilli(0)
	}
	return a.Start
}
