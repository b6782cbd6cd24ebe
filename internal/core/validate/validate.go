// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

// UserID validates a Discord user id: a non-empty string of digits.
func UserID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("user id %q must contain only digits", id)
		}
	}
	return nil
}
