// Package main is the entry point for the soy-cli tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/soyhq/soy-cli/internal/cli"
)

// Version information set at build time.
var version = "0.4.0"

// Global flags.
var (
	configDir     string
	envName       string
	verbose       bool
	correlationID string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "soy-cli",
		Short: "Managed remote Spark sessions on Databricks",
		Long: `soy-cli loads layered environment configuration, acquires a remote
Spark session against a Databricks cluster, runs declarative asset
pipelines, and reports cluster and table status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing soy.<env>.yaml files")
	root.PersistentFlags().StringVar(&envName, "env", "", "Environment name (overrides SOY_ENV)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	root.PersistentFlags().StringVar(&correlationID, "correlation-id", "", "Set explicit correlation ID")

	root.AddCommand(newConnectCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newTablesCmd())
	root.AddCommand(newDevCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
