package activity

import (
	"time"

	"github.com/hay-kot/nowcard/internal/core/elapsed"
)

// ActionLabel is the verb shown before the activity name.
type ActionLabel string

const (
	ActionPlaying   ActionLabel = "Playing"
	ActionStreaming ActionLabel = "Streaming"
)

// Primary is the activity chosen for display along with its rendered lines.
type Primary struct {
	Action ActionLabel `json:"action"`
	Name   string      `json:"name"`
	// Lines holds 1 to 5 lines, most prominent first.
	Lines []string `json:"lines"`
	URL   string   `json:"url,omitempty"`
}

// IsLiveStream reports whether p is a stream with a link to watch it.
func (p *Primary) IsLiveStream() bool {
	return p != nil && p.Action == ActionStreaming && p.URL != ""
}

// Resolve picks the activity to display from activities and formats it
// relative to now. The first stream in input order wins; without a stream
// the first activity wins. A nil or empty list returns nil.
func Resolve(activities []Activity, now time.Time) *Primary {
	if len(activities) == 0 {
		return nil
	}

	for _, a := range activities {
		if a.IsStreaming() {
			return resolveStream(a, activities, now)
		}
	}

	return resolvePlaying(activities[0], now)
}

func resolveStream(stream Activity, all []Activity, now time.Time) *Primary {
	lines := []string{
		"Streaming on " + stream.Name + " • Live for " + elapsed.Since(stream.startOrEpoch(), now),
		stream.Details,
		stream.State,
	}

	if game, ok := crossReference(stream, all); ok {
		lines = append(lines, game.Details, game.stateWithParty())
	}

	return &Primary{
		Action: ActionStreaming,
		Name:   stream.Name,
		Lines:  lines,
		URL:    stream.URL,
	}
}

func resolvePlaying(a Activity, now time.Time) *Primary {
	return &Primary{
		Action: ActionPlaying,
		Name:   a.Name,
		Lines: []string{
			"Playing " + a.Name,
			"Playing for " + elapsed.Since(a.startOrEpoch(), now),
			a.stateWithParty(),
		},
	}
}

// crossReference finds the game being played during a stream: the first
// activity whose name equals the stream's state. When several activities share
// that name the earliest in the list is used rather than none. An empty state
// never matches.
func crossReference(stream Activity, all []Activity) (Activity, bool) {
	if stream.State == "" {
		return Activity{}, false
	}

	for _, a := range all {
		if a.Name == stream.State {
			return a, true
		}
	}

	return Activity{}, false
}
