package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/databricks"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured cluster's state without opening a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			logger := telemetry.CommandLogger(ctx, newLogger(cfg), "status")
			client := databricks.NewClient(cfg.Host, cfg.Token)

			defer telemetry.Measure(logger, "cluster status")()
			state, err := client.ClusterState(ctx, cfg.ClusterID)
			if err != nil {
				return err
			}

			fmt.Printf("%-12s %-24s %s\n", "ENVIRONMENT", "CLUSTER", "STATE")
			fmt.Printf("%-12s %-24s %s\n", cfg.Environment, cfg.ClusterID, state)
			return nil
		},
	}

	return cmd
}
