package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/nowcard/internal/core/config"
)

// ConfigCheck validates the loaded configuration. Items are labelled with the
// config section they belong to, e.g. "feed.socket_url (feed)".
type ConfigCheck struct {
	config *config.Config
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{config: cfg}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.add("Config loaded", StatusFail, "configuration not loaded")
		return result
	}

	err := c.config.Validate()
	warnings := c.config.Warnings()

	if err == nil && len(warnings) == 0 {
		result.add("Config valid", StatusPass, "")
		return result
	}

	var fieldErrs criterio.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.add(fieldLabel(fe.Field), StatusFail, fe.Err.Error())
		}
	case err != nil:
		result.add("validation", StatusFail, err.Error())
	}

	for _, w := range warnings {
		result.add(fieldLabel(w.Item), StatusWarn, w.Message)
	}

	return result
}

func fieldLabel(field string) string {
	if field == "" {
		return "validation"
	}
	return field + " (" + config.Section(field) + ")"
}
