package config

import (
	"fmt"
	"strings"
)

// Validate checks settings for correctness.
// Returns an error listing every invalid value.
func (s *Settings) Validate() error {
	var errs []string

	if s.Jobs < 1 {
		errs = append(errs, "jobs must be >= 1")
	}
	if s.Command != "" && strings.TrimSpace(s.Command) == "" {
		errs = append(errs, "command must not be blank")
	}
	if s.Label != "" && strings.TrimSpace(s.Label) == "" {
		errs = append(errs, "label must not be blank")
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed: %v", errs)
	}

	return nil
}
