// Package cli holds behavior shared by the soy-cli and
// test-databricks-connect entry points.
package cli

import (
	"errors"

	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/databricks"
)

// Exit codes, one per failure category, so scripts can branch on the kind
// of failure.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitConfig     = 2
	ExitConnection = 3
	ExitTimeout    = 4
)

// ExitCode maps an error onto its category's exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *config.ConfigError
	var timeoutErr *databricks.TimeoutError
	var connErr *databricks.ConnectionError
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.As(err, &timeoutErr):
		return ExitTimeout
	case errors.As(err, &connErr):
		return ExitConnection
	default:
		return ExitFailure
	}
}
