package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/feed"
)

// Options configures the live card.
type Options struct {
	UserID          string
	Source          feed.Source
	CardOptions     card.Options
	RefreshInterval time.Duration
	Opener          *LinkOpener
	Logger          zerolog.Logger

	// Now is the clock used for elapsed counters. Defaults to time.Now.
	Now func() time.Time
	// OnSnapshot, when set, is called for every card built from a new snapshot.
	OnSnapshot func(card.Card)
}

// Model is the Bubble Tea model for the live card.
type Model struct {
	opts    Options
	keys    keyMap
	spinner spinner.Model

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	snaps  <-chan feed.Snapshot

	snapshot *feed.Snapshot
	now      time.Time
	width    int

	notice string
	err    error
}

// New creates the live card model. The subscription starts in Init.
func New(ctx context.Context, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	subCtx, cancel := context.WithCancel(ctx)

	keys := defaultKeyMap()
	keys.Open.SetEnabled(opts.Opener != nil)

	return Model{
		opts:    opts,
		keys:    keys,
		spinner: s,
		parent:  ctx,
		ctx:     subCtx,
		cancel:  cancel,
		now:     opts.Now(),
	}
}

// Init starts the subscription, the spinner and the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		subscribe(m.ctx, m.opts.Source, m.opts.UserID),
		scheduleRefresh(m.opts.RefreshInterval),
	)
}

// Card returns the card for the latest snapshot, or false while loading.
func (m Model) Card() (card.Card, bool) {
	if m.snapshot == nil {
		return card.Card{}, false
	}
	return card.New(*m.snapshot, m.now, m.opts.CardOptions), true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case subscribedMsg:
		// A reconnect replaced m.ctx; results of older subscriptions are dropped.
		if msg.ctx != m.ctx {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snaps = msg.snaps
		m.err = nil
		return m, waitForSnapshot(msg.snaps)

	case snapshotMsg:
		if msg.snaps != m.snaps {
			return m, nil
		}
		m.snapshot = &msg.snap
		m.now = m.opts.Now()
		if m.opts.OnSnapshot != nil {
			c, _ := m.Card()
			m.opts.OnSnapshot(c)
		}
		return m, waitForSnapshot(msg.snaps)

	case feedClosedMsg:
		if msg.snaps == m.snaps && m.ctx.Err() == nil {
			m.err = errors.New("presence feed closed")
		}
		return m, nil

	case refreshTickMsg:
		m.now = time.Time(msg)
		return m, scheduleRefresh(m.opts.RefreshInterval)

	case linkOpenedMsg:
		if msg.err != nil {
			m.opts.Logger.Warn().Err(msg.err).Str("url", msg.url).Msg("open link failed")
			m.err = msg.err
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.notice = "opened " + msg.url
		return m, nil

	case spinner.TickMsg:
		if m.snapshot != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		c, ok := m.Card()
		if !ok || c.Link == "" {
			m.notice = "nothing to open"
			return m, nil
		}
		return m, openLink(m.opts.Opener, c.Link)

	case key.Matches(msg, m.keys.Reconnect):
		m.cancel()
		m.ctx, m.cancel = context.WithCancel(m.parent)
		m.snaps = nil
		m.snapshot = nil
		m.notice = "reconnecting"
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, subscribe(m.ctx, m.opts.Source, m.opts.UserID))
	}

	return m, nil
}

// View renders the card, or a spinner while the first snapshot is pending.
func (m Model) View() string {
	var b strings.Builder

	if c, ok := m.Card(); ok {
		b.WriteString(RenderCard(c, m.width))
	} else {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
		b.WriteString(mutedStyle.Render(" Connecting to presence feed..."))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("✘ " + m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(noticeStyle.Render("• " + m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.keys.helpView()))
	b.WriteString("\n")

	return b.String()
}
