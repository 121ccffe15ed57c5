package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seats-report",
	Short: "Generate Copilot seat reports for a GitHub organization",
	Long: `seats-report queries an organization's Copilot seat billing data and
renders it as a Markdown table, CSV, or JSON. It is the command-line
counterpart of the seats-report-action workflow action.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
