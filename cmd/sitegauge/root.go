// Package main provides the entry point for the sitegauge CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitegauge.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitegauge",
		Short: "Website SEO, accessibility, and mobile audit tool",
		Long: `sitegauge audits web pages for SEO quality, accessibility compliance,
mobile-friendliness, and performance, producing weighted scores and
actionable recommendations.

Audits are recorded per URL, so repeated runs build a score history
that the trend command analyzes for improvements and regressions.`,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewTrendCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
