package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func newConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Acquire a remote Spark session and verify it is usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			logger := telemetry.CommandLogger(ctx, newLogger(cfg), "connect")
			mgr := newManager(cfg, logger)

			h, err := mgr.Acquire(ctx, cfg)
			if err != nil {
				return err
			}
			defer mgr.Release(ctx, h)

			fmt.Printf("Session %s active on cluster %s (%s)\n", h.ID, h.ClusterID, cfg.Environment)
			return nil
		},
	}

	return cmd
}
