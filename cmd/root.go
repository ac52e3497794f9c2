// Package cmd implements the Venturely CLI.
//
// Design: following the pattern used by kubectl, hugo, and other
// standard Go CLI tools, all application logic is contained in the cmd
// package, leaving main.go as a minimal entry point.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "venturely",
	Short: "Venturely - AI copilot for business planning",
	Long: `Venturely is the command-line client for the Venturely AI copilot.

It answers business-planning questions through the Venturely agent
backend, streaming responses as they are generated, and carries your
conversation history across sessions. Financial calculators, data
analysis, document extraction, and chart generation are available
depending on your role (entrepreneur, investor, lender, grantor, or
partner).

Running venturely without arguments starts an interactive chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
