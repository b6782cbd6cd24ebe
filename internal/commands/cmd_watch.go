package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/lanyard"
	"github.com/hay-kot/nowcard/internal/tui"
	"github.com/hay-kot/nowcard/pkg/executil"
)

type WatchCmd struct {
	flags *Flags
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{
		flags: flags,
	}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "watch",
		Usage:       "Show the live card in the terminal",
		UsageText:   "nowcard watch",
		Description: "Subscribes to the presence feed and redraws the card on every change. This is the default command.",
		Action:      cmd.Run,
	})
	return app
}

// Run executes the live card. Exported for use as default command.
func (cmd *WatchCmd) Run(ctx context.Context, _ *cli.Command) error {
	userID, err := cmd.flags.requireUserID()
	if err != nil {
		return err
	}

	var (
		cfg    = cmd.flags.Config
		logger = log.With().Str("component", "watch").Logger()
		socket = lanyard.NewSocket(cfg.Feed.SocketURL, cfg.Feed.ReconnectDelay, logger)
	)

	var opener *tui.LinkOpener
	if cfg.OpenCommand != "" {
		opener = tui.NewLinkOpener(cfg.OpenCommand, &executil.RealExecutor{})
	}

	m := tui.New(ctx, tui.Options{
		UserID:          userID,
		Source:          socket,
		CardOptions:     cfg.CardOptions(),
		RefreshInterval: cfg.TUI.RefreshInterval,
		Opener:          opener,
		Logger:          logger,
		OnSnapshot: func(c card.Card) {
			logger.Debug().Str("presence", string(c.Presence)).Str("link", c.Link).Msg("snapshot received")
		},
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
