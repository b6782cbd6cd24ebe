package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/nowcard/internal/core/config"
	"github.com/hay-kot/nowcard/internal/core/validate"
)

// usageExample shows how to pass a user id when none is configured.
const usageExample = "nowcard --user-id 94490510688792576"

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	UserID     string

	// Config is loaded in the Before hook and available to all commands.
	// A --user-id flag has already been applied to it.
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "nowcard", "config.yaml")
}

// LoadConfig loads the config file into f.Config and applies the --user-id
// override. A bad flag value is reported against the flag, not the file.
func (f *Flags) LoadConfig() error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if f.UserID != "" {
		if err := validate.UserID(f.UserID); err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
		cfg.UserID = f.UserID
	}

	f.Config = cfg
	return nil
}

// requireUserID returns the configured user id, or an error explaining how to
// provide one.
func (f *Flags) requireUserID() (string, error) {
	if f.Config == nil {
		return "", fmt.Errorf("configuration not loaded")
	}
	id := f.Config.UserID
	if id == "" {
		return "", fmt.Errorf("no user id configured; pass one like so: %s", usageExample)
	}
	if err := validate.UserID(id); err != nil {
		return "", err
	}
	return id, nil
}
