package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/monitoring"
	"github.com/soyhq/soy-cli/internal/telemetry"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <catalog.schema.table> [...]",
		Short: "Summarize Delta table sizes and row counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			logger := telemetry.CommandLogger(ctx, newLogger(cfg), "tables")
			mgr := newManager(cfg, logger)

			h, err := mgr.Acquire(ctx, cfg)
			if err != nil {
				return err
			}
			defer mgr.Release(ctx, h)

			defer telemetry.Measure(logger, "table summary")()
			details, err := monitoring.Summary(ctx, mgr, h, args)
			if err != nil {
				return err
			}

			fmt.Printf("%-48s %-8s %10s %10s %12s\n", "TABLE", "FORMAT", "FILES", "SIZE_MB", "ROWS")
			fmt.Println(strings.Repeat("-", 94))
			for _, d := range details {
				if d.Err != "" {
					fmt.Printf("%-48s error: %s\n", d.FullName, d.Err)
					continue
				}
				fmt.Printf("%-48s %-8s %10d %10.2f %12d\n",
					d.FullName, d.Format, d.NumFiles, d.SizeMB, d.RowCount)
			}
			return nil
		},
	}

	return cmd
}
