package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/asset"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <asset-dir>",
		Short: "Run the pipe transform declared by an asset's io.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			logger := telemetry.CommandLogger(ctx, newLogger(cfg), "run")
			runner := asset.NewRunner(cfg, newManager(cfg, logger), logger)

			if err := runner.Run(ctx, args[0], asset.PipeTransform{}); err != nil {
				return err
			}
			fmt.Printf("Asset %s completed\n", args[0])
			return nil
		},
	}

	return cmd
}
