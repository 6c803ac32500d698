package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/asset"
	"github.com/soyhq/soy-cli/internal/config"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func newDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev <asset-dir>",
		Short: "Re-run an asset's transform whenever its files change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			logger := telemetry.CommandLogger(ctx, newLogger(cfg), "dev")
			return runDevLoop(ctx, cfg, logger, args[0])
		},
	}

	return cmd
}

func runDevLoop(ctx context.Context, cfg *config.Config, logger *slog.Logger, dir string) error {
	runner := asset.NewRunner(cfg, newManager(cfg, logger), logger)

	runOnce := func() {
		if err := runner.Run(ctx, dir, asset.PipeTransform{}); err != nil {
			logger.Error("transform failed", slog.Any("error", err))
			return
		}
		logger.Info("transform completed", slog.String("dir", dir))
	}

	logger.Info("starting dev loop", slog.String("dir", dir))
	runOnce()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	// Editors fire bursts of events per save; coalesce them.
	var debounce *time.Timer
	changed := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down dev loop")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", slog.String("path", ev.Name))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", slog.Any("error", err))

		case <-changed:
			runOnce()
		}
	}
}
