// Package main provides the entry point for the stm CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stackmuncher/stm-app/cmd/stm/commands"
	"github.com/stackmuncher/stm-app/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "stm",
		Short: "stm - incremental Git stack report generator",
		Long: `stm analyzes a Git repository's history and produces a stack report:
per-language lines of code, libraries and keywords, per-contributor
breakdowns, and commit-time activity histograms.

Commands:
  report    Generate a stack report for a repository
  mcp       Start an MCP server exposing the report tool to AI agents`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "stm %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
