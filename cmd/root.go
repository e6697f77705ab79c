// Package cmd defines the CLI commands for the numharvest executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "numharvest",
		Short: "A cyclic collector of published contact identifiers.",
		Long: `numharvest runs recurring collection cycles against configured
content sources, extracts phone-number identifiers, validates them against
the targeted regions, classifies them by keyword taxonomy, and keeps a
bounded, deduplicated collection available over an HTTP control API.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")

	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
