// Package main is the entry point for the shipcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipcheck",
		Short: "Release-reporting for git repositories",
		Long:  `Shipcheck inspects a repository mirror's commit and tag history, correlates tags with the pull requests and issue-tracker references that produced them, and prints a categorized release summary.`,
	}

	cmd.AddCommand(reportCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
