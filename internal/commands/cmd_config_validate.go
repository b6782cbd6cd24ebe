package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/printer"
)

// configSections orders the config sections in text output. Top level fields
// configure the card itself.
var configSections = []struct {
	key   string
	title string
}{
	{config.SectionCard, "Card"},
	{config.SectionFeed, "Presence feed"},
	{config.SectionTUI, "Live card"},
	{config.SectionServer, "Server"},
}

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "nowcard config validate [options]",
				Description: "Checks the user id, the card links and templates, the feed endpoints and the server settings.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// configIssue is one error or warning, attributed to a config section.
type configIssue struct {
	Section string `json:"section"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type configReport struct {
	Valid    bool          `json:"valid"`
	UserID   string        `json:"user_id,omitempty"`
	Errors   []configIssue `json:"errors,omitempty"`
	Warnings []configIssue `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := buildConfigReport(cfg)

	var err error
	switch cmd.format {
	case "json":
		err = writeConfigJSON(c.Root().Writer, report)
	case "text":
		writeConfigText(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q, expected text or json", cmd.format)
	}
	if err != nil {
		return err
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func buildConfigReport(cfg *config.Config) configReport {
	validationErr := cfg.Validate()

	report := configReport{
		Valid:  validationErr == nil,
		UserID: cfg.UserID,
	}

	for _, fe := range extractFieldErrors(validationErr) {
		field := fe.Field
		if field == "" {
			field = "config"
		}
		report.Errors = append(report.Errors, configIssue{
			Section: config.Section(fe.Field),
			Field:   field,
			Message: fe.Err.Error(),
		})
	}

	for _, w := range cfg.Warnings() {
		report.Warnings = append(report.Warnings, configIssue{
			Section: config.Section(w.Item),
			Field:   w.Item,
			Message: w.Message,
		})
	}

	return report
}

// extractFieldErrors extracts field errors from a validation error.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func writeConfigJSON(w io.Writer, report configReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeConfigText(p *printer.Printer, report configReport) {
	for _, section := range configSections {
		errs := issuesIn(report.Errors, section.key)
		warns := issuesIn(report.Warnings, section.key)
		if len(errs) == 0 && len(warns) == 0 {
			continue
		}

		p.Section(section.title)
		for _, e := range errs {
			p.FailItem(e.Field, e.Message)
		}
		for _, w := range warns {
			p.WarnItem(w.Field, w.Message)
		}
		p.Printf("")
	}

	if report.Valid {
		msg := "Configuration is valid"
		if report.UserID != "" {
			msg += ", showing user " + report.UserID
		}
		if n := len(report.Warnings); n > 0 {
			msg += fmt.Sprintf(" (%d warning(s))", n)
		}
		p.Successf("%s", msg)
		return
	}

	p.Errorf("%d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))
}

func issuesIn(issues []configIssue, section string) []configIssue {
	var out []configIssue
	for _, i := range issues {
		if i.Section == section {
			out = append(out, i)
		}
	}
	return out
}
