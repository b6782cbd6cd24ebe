package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/lanyard"
	"github.com/hay-kot/nowcard/internal/tui"
)

type ShowCmd struct {
	flags  *Flags
	format string
}

// NewShowCmd creates a new show command.
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application.
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "show",
		Usage:       "Print the current card once",
		UsageText:   "nowcard show [options]",
		Description: "Fetches the current presence once and prints the card. Text output is styled when writing to a terminal.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	userID, err := cmd.flags.requireUserID()
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	client := lanyard.NewClient(cfg.Feed.RESTURL, cfg.Feed.RequestTimeout, log.With().Str("component", "show").Logger())

	current, err := fetchCard(ctx, client, userID, cfg.CardOptions(), time.Now())
	if err != nil {
		return err
	}

	w := c.Root().Writer
	switch cmd.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			card.Card
			Lines []string `json:"lines"`
		}{Card: current, Lines: current.Lines()})
	case "text":
		return writeCardText(w, current, isTerminal(w))
	default:
		return fmt.Errorf("unknown format %q, expected text or json", cmd.format)
	}
}

// fetchCard retrieves the snapshot for userID and builds its card.
func fetchCard(ctx context.Context, fetcher feed.Fetcher, userID string, opts card.Options, now time.Time) (card.Card, error) {
	snap, err := fetcher.Fetch(ctx, userID)
	if err != nil {
		return card.Card{}, fmt.Errorf("fetch presence: %w", err)
	}
	return card.New(snap, now, opts), nil
}

func writeCardText(w io.Writer, c card.Card, styled bool) error {
	out := c.String()
	if styled {
		out = tui.RenderCard(c, 0) + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
