// Package card assembles everything the presentation layer needs to draw the
// now-playing card from one presence snapshot.
package card

import (
	"strings"
	"time"

	"github.com/hay-kot/nowcard/internal/core/activity"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/core/presence"
	"github.com/hay-kot/nowcard/pkg/tmpl"
)

// EmptyText is shown in place of activity lines when nothing is going on.
const EmptyText = "Connection... untraceable"

// DefaultAvatarURL is the avatar template used when none is configured.
const DefaultAvatarURL = "https://cdn.discordapp.com/avatars/{{ .UserID }}/{{ .Avatar }}"

// Options controls the parts of the card that do not come from the feed.
type Options struct {
	// AvatarURL is a template receiving AvatarData.
	AvatarURL string
	// FallbackURL is the link used when the user is not live streaming.
	FallbackURL string
}

// AvatarData defines the fields available to the avatar URL template.
type AvatarData struct {
	UserID string
	Avatar string
}

// Card is the render-ready view of a snapshot.
type Card struct {
	UserID    string            `json:"user_id"`
	Name      string            `json:"name"`
	AvatarURL string            `json:"avatar_url,omitempty"`
	Presence  presence.State    `json:"presence"`
	Activity  *activity.Primary `json:"activity"`
	Link      string            `json:"link,omitempty"`
}

// New builds a Card from snap relative to now.
func New(snap feed.Snapshot, now time.Time, opts Options) Card {
	primary := activity.Resolve(snap.Activities, now)
	live := primary.IsLiveStream()

	c := Card{
		UserID:    snap.User.ID,
		Name:      snap.User.DisplayName(),
		AvatarURL: avatarURL(opts.AvatarURL, snap.User),
		Presence:  presence.Classify(snap.Status, live),
		Activity:  primary,
		Link:      opts.FallbackURL,
	}

	if live {
		c.Link = primary.URL
	}

	return c
}

// Lines returns the text lines to show under the name.
func (c Card) Lines() []string {
	if c.Activity == nil {
		return []string{EmptyText}
	}
	return c.Activity.Lines
}

// String renders the card as plain text: name and presence, the activity
// lines and the link.
func (c Card) String() string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteString(" (")
	b.WriteString(c.Presence.Label())
	b.WriteString(")\n")

	for _, line := range c.Lines() {
		if line == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if c.Link != "" {
		b.WriteString("  ")
		b.WriteString(c.Link)
		b.WriteString("\n")
	}

	return b.String()
}

func avatarURL(tmplStr string, u feed.User) string {
	if u.ID == "" || u.Avatar == "" {
		return ""
	}
	if tmplStr == "" {
		tmplStr = DefaultAvatarURL
	}

	out, err := tmpl.Render(tmplStr, AvatarData{UserID: u.ID, Avatar: u.Avatar})
	if err != nil {
		return ""
	}
	return out
}
