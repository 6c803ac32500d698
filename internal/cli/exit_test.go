package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/databricks"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", &config.ConfigError{Field: "host", Reason: "required"}, ExitConfig},
		{"connection", &databricks.ConnectionError{Op: "acquire", Err: errors.New("refused")}, ExitConnection},
		{"timeout", &databricks.TimeoutError{Op: "acquire", Elapsed: time.Second}, ExitTimeout},
		{"wrapped config", fmt.Errorf("loading: %w", &config.ConfigError{Field: "token", Reason: "missing"}), ExitConfig},
		{"wrapped timeout", fmt.Errorf("acquire: %w", &databricks.TimeoutError{Op: "acquire"}), ExitTimeout},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
