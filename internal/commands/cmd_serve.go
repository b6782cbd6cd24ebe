package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/nowcard/internal/lanyard"
	"github.com/hay-kot/nowcard/internal/metrics"
	"github.com/hay-kot/nowcard/internal/server"
)

type ServeCmd struct {
	flags *Flags
	addr  string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve cards over HTTP",
		UsageText: "nowcard serve [options]",
		Description: `Serves the card as JSON on /api/card and as text on /card.

The configured user is kept current over the live feed. Any other user can be
requested with ?user_id= and is fetched on demand.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("NOWCARD_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if cmd.addr != "" {
		cfg.Server.Addr = cmd.addr
	}

	reg, err := metrics.NewRegistry()
	if err != nil {
		return fmt.Errorf("create metrics registry: %w", err)
	}

	var (
		logger = log.With().Str("component", "server").Logger()
		client = lanyard.NewClient(cfg.Feed.RESTURL, cfg.Feed.RequestTimeout, logger)
		socket = lanyard.NewSocket(cfg.Feed.SocketURL, cfg.Feed.ReconnectDelay, logger)
	)
	socket.OnReconnect = func(error) { reg.ObserveReconnect() }

	if cfg.UserID == "" {
		logger.Warn().Msg("no user id configured, live feed disabled")
	}

	return server.New(cfg, client, socket, reg, logger).Run(ctx)
}
