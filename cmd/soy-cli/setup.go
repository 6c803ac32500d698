package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/databricks"
	"github.com/soyhq/soy-cli/internal/session"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

// loadConfig resolves configuration for the selected environment. The --env
// flag wins over the SOY_ENV variable.
func loadConfig() (*config.Config, error) {
	getenv := os.Getenv
	if envName != "" {
		getenv = func(key string) string {
			if key == "SOY_ENV" {
				return envName
			}
			return os.Getenv(key)
		}
	}
	return config.NewLoader(configDir, getenv).Load()
}

// newLogger builds the command logger with the workspace token redacted.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := telemetry.NewLogger(os.Stderr, level, cfg.LogFormat)
	return telemetry.WithRedaction(logger, cfg.Token)
}

// newManager wires a session manager against the configured workspace.
func newManager(cfg *config.Config, logger *slog.Logger) *session.Manager {
	return session.NewManager(databricks.NewClient(cfg.Host, cfg.Token), logger)
}

// commandContext returns a signal-aware context carrying the correlation ID.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return telemetry.WithCorrelationID(ctx, correlationID), cancel
}
