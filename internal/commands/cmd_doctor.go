package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/nowcard/internal/commands/doctor"
	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/core/feed"
	"github.com/hay-kot/nowcard/internal/lanyard"
	"github.com/hay-kot/nowcard/internal/printer"
)

type DoctorCmd struct {
	flags  *Flags
	format string

	// newFetcher builds the fetcher used by the feed check.
	newFetcher func(cfg *config.Config) feed.Fetcher
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{
		flags: flags,
		newFetcher: func(cfg *config.Config) feed.Fetcher {
			return lanyard.NewClient(cfg.Feed.RESTURL, cfg.Feed.RequestTimeout, log.With().Str("component", "doctor").Logger())
		},
	}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your nowcard setup",
		UsageText:   "nowcard doctor [options]",
		Description: "Checks the configuration and that the presence feed knows the configured user.",
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

type doctorReport struct {
	Healthy bool            `json:"healthy"`
	Summary doctorSummary   `json:"summary"`
	Checks  []doctor.Result `json:"checks"`
}

type doctorSummary struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config),
	}
	if cfg := cmd.flags.Config; cfg != nil {
		checks = append(checks, doctor.NewFeedCheck(cmd.newFetcher(cfg), cfg.UserID))
	}

	results := doctor.RunAll(ctx, checks)
	passed, warned, failed := doctor.Summary(results)
	report := doctorReport{
		Healthy: failed == 0,
		Summary: doctorSummary{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	switch cmd.format {
	case "json":
		if err := writeDoctorJSON(c.Root().Writer, report); err != nil {
			return err
		}
	case "text":
		writeDoctorText(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q, expected text or json", cmd.format)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

func writeDoctorJSON(w io.Writer, report doctorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeDoctorText(p *printer.Printer, report doctorReport) {
	for _, result := range report.Checks {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	s := report.Summary
	if report.Healthy {
		p.Successf("%d passed, %d warnings", s.Passed, s.Warned)
		return
	}
	p.Errorf("%d passed, %d warnings, %d failed", s.Passed, s.Warned, s.Failed)
}
