package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/nowcard/internal/core/feed"
)

const openTimeout = 10 * time.Second

// subscribedMsg is sent once the feed subscription is established. ctx is
// the context the subscription was started with.
type subscribedMsg struct {
	ctx   context.Context
	snaps <-chan feed.Snapshot
	err   error
}

// snapshotMsg is sent when the feed delivers a snapshot.
type snapshotMsg struct {
	snaps <-chan feed.Snapshot
	snap  feed.Snapshot
}

// feedClosedMsg is sent when a subscription channel closes.
type feedClosedMsg struct {
	snaps <-chan feed.Snapshot
}

// refreshTickMsg is sent to redraw the elapsed counters.
type refreshTickMsg time.Time

// linkOpenedMsg is sent when the open command finishes.
type linkOpenedMsg struct {
	url string
	err error
}

// subscribe returns a command that starts a feed subscription.
func subscribe(ctx context.Context, source feed.Source, userID string) tea.Cmd {
	return func() tea.Msg {
		snaps, err := source.Subscribe(ctx, userID)
		return subscribedMsg{ctx: ctx, snaps: snaps, err: err}
	}
}

// waitForSnapshot returns a command that blocks until the next snapshot.
func waitForSnapshot(snaps <-chan feed.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-snaps
		if !ok {
			return feedClosedMsg{snaps: snaps}
		}
		return snapshotMsg{snaps: snaps, snap: snap}
	}
}

// scheduleRefresh returns a command that schedules the next redraw.
func scheduleRefresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// openLink returns a command that opens url in the background.
func openLink(opener *LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()
		return linkOpenedMsg{url: url, err: opener.Open(ctx, url)}
	}
}
