package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copilotops/seats-report-action/pkg/core"
	"github.com/copilotops/seats-report-action/pkg/github"
)

var generateFlags struct {
	org          string
	format       string
	outDir       string
	apiBaseURL   string
	inactiveDays int
	debug        bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch the seat list and render the report",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateFlags.org, "org", "", "organization to report on (required)")
	generateCmd.Flags().StringVar(&generateFlags.format, "format", "markdown", "output format: markdown, csv, or json")
	generateCmd.Flags().StringVar(&generateFlags.outDir, "out", "", "write report files to this directory instead of stdout")
	generateCmd.Flags().StringVar(&generateFlags.apiBaseURL, "api-url", "", "GitHub Enterprise Server API base URL")
	generateCmd.Flags().IntVar(&generateFlags.inactiveDays, "inactive-days", 30, "activity window for the summary, in days")
	generateCmd.Flags().BoolVar(&generateFlags.debug, "debug", false, "enable debug logging")
	_ = generateCmd.MarkFlagRequired("org")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}

	logger, err := newLogger(generateFlags.debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	client := github.NewOrgClient(token, logger)
	if generateFlags.apiBaseURL != "" {
		if err := client.WithEnterpriseURL(generateFlags.apiBaseURL); err != nil {
			return err
		}
	}

	records, total, err := client.ListSeats(cmd.Context(), generateFlags.org)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("organization %s has no Copilot seats, or the token cannot read its billing data", generateFlags.org)
	}

	report := core.Report{
		Organization: generateFlags.org,
		GeneratedAt:  time.Now().UTC(),
		TotalSeats:   total,
		Records:      records,
	}

	if generateFlags.outDir != "" {
		files, err := core.WriteReportFiles(generateFlags.outDir, report)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s, %s, %s\n", files.JSONPath, files.CSVPath, files.MarkdownPath)
		return nil
	}

	switch generateFlags.format {
	case "markdown", "md":
		summary := core.Summarize(records, generateFlags.inactiveDays, time.Now())
		fmt.Print(core.RenderComment(report, summary))
	case "csv":
		if err := core.WriteCSV(os.Stdout, records); err != nil {
			return err
		}
	case "json":
		if err := core.WriteJSON(os.Stdout, report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q, expected markdown, csv, or json", generateFlags.format)
	}

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
