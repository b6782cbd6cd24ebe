package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/nowcard/pkg/executil"
	"github.com/hay-kot/nowcard/pkg/tmpl"
)

// ErrNoOpenCommand is returned when no open_command is configured.
var ErrNoOpenCommand = errors.New("no open_command configured")

// keyMap defines the keys of the live card.
type keyMap struct {
	Open      key.Binding
	Reconnect key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o", "open link"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reconnect"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpView renders the enabled bindings as "o open link • q quit".
func (k keyMap) helpView() string {
	parts := make([]string, 0, 3)
	for _, b := range []key.Binding{k.Open, k.Reconnect, k.Quit} {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// LinkOpener opens card links with the configured shell command template.
type LinkOpener struct {
	command string
	exec    executil.Executor
}

// NewLinkOpener creates a LinkOpener. command is a template receiving .URL.
func NewLinkOpener(command string, exec executil.Executor) *LinkOpener {
	return &LinkOpener{command: command, exec: exec}
}

// Open renders the command for url and runs it through the shell.
func (o *LinkOpener) Open(ctx context.Context, url string) error {
	if o == nil || o.command == "" {
		return ErrNoOpenCommand
	}

	rendered, err := tmpl.Render(o.command, struct{ URL string }{URL: url})
	if err != nil {
		return fmt.Errorf("render open_command: %w", err)
	}

	if out, err := executil.Shell(ctx, o.exec, rendered); err != nil {
		return fmt.Errorf("open %s: %w: %s", url, err, strings.TrimSpace(string(out)))
	}

	return nil
}
