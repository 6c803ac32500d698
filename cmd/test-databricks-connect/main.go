// Command test-databricks-connect acquires a remote session, runs the
// health probe, and reports PASS or FAIL. It is the smoke test run after
// changing workspace credentials or cluster configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soyhq/soy-cli/internal/cli"
	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/databricks"
	"github.com/soyhq/soy-cli/internal/session"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func main() {
	configDir := flag.String("config-dir", ".", "directory containing soy.<env>.yaml files")
	envName := flag.String("env", "", "environment name (overrides SOY_ENV)")
	verbose := flag.Bool("verbose", false, "enable verbose output")
	flag.Parse()

	if err := run(*configDir, *envName, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
	fmt.Println("PASS")
}

func run(configDir, envName string, verbose bool) error {
	getenv := os.Getenv
	if envName != "" {
		getenv = func(key string) string {
			if key == "SOY_ENV" {
				return envName
			}
			return os.Getenv(key)
		}
	}
	cfg, err := config.NewLoader(configDir, getenv).Load()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := telemetry.WithRedaction(
		telemetry.NewLogger(os.Stderr, level, cfg.LogFormat), cfg.Token)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = telemetry.WithCorrelationID(ctx, "")

	mgr := session.NewManager(databricks.NewClient(cfg.Host, cfg.Token), logger)
	h, err := mgr.Acquire(ctx, cfg)
	if err != nil {
		return err
	}
	defer mgr.Release(ctx, h)

	if !mgr.Healthcheck(h) {
		return &databricks.ConnectionError{Op: "healthcheck", Err: fmt.Errorf("session %s unhealthy", h.ID)}
	}

	fmt.Printf("session %s active on cluster %s (%s)\n", h.ID, h.ClusterID, cfg.Environment)
	return nil
}
