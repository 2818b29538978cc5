// Package commands holds the wanderlust command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd builds the wanderlust command with its subcommands.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wanderlust",
		Short:         "WanderLust property listings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		ServeCmd(),
		SeedCmd(),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
