package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sethvargo/go-githubactions"
	"go.uber.org/zap"

	"github.com/copilotops/seats-report-action/pkg/core"
	"github.com/copilotops/seats-report-action/pkg/github"
)

// issueEvent is the slice of the issues webhook payload the action needs.
type issueEvent struct {
	Action string `json:"action"`
	Issue  struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	} `json:"issue"`
}

func main() {
	// Set up action
	action := githubactions.New()
	ctx := context.Background()

	// Configuration from env vars, overridden by action inputs
	conf, err := core.LoadConfig()
	if err != nil {
		action.Fatalf("Failed to load configuration: %v", err)
	}
	applyInputs(action, &conf)

	if conf.GithubToken == "" {
		conf.GithubToken = os.Getenv("GITHUB_TOKEN")
		if conf.GithubToken == "" {
			action.Fatalf("github_token input is required")
		}
	}

	// Get GitHub context
	eventName := os.Getenv("GITHUB_EVENT_NAME")
	if eventName != "issues" {
		action.Fatalf("This action only works on issues events, got: %s", eventName)
	}

	event, err := readIssueEvent(os.Getenv("GITHUB_EVENT_PATH"))
	if err != nil {
		action.Fatalf("Failed to read issue event: %v", err)
	}

	if event.Action != "opened" {
		action.Infof("Ignoring issues event with action %q. Exiting.", event.Action)
		return
	}

	if !core.MatchesTrigger(event.Issue.Title, conf.TriggerTitle) {
		action.Infof("Issue #%d title %q does not match trigger title %q. Skipping.",
			event.Issue.Number, event.Issue.Title, conf.TriggerTitle)
		return
	}

	repoFullName := os.Getenv("GITHUB_REPOSITORY")
	if repoFullName == "" {
		action.Fatalf("GITHUB_REPOSITORY environment variable is not set")
	}

	logger, err := newLogger(conf.LogDebug)
	if err != nil {
		action.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize GitHub client
	client, err := github.NewClient(conf.GithubToken, repoFullName, logger)
	if err != nil {
		action.Fatalf("Failed to create GitHub client: %v", err)
	}
	if conf.BaseURL != "" {
		if err := client.WithEnterpriseURL(conf.BaseURL); err != nil {
			action.Fatalf("Failed to configure API base URL: %v", err)
		}
	}

	// Mark the issue as accepted before doing any work
	if err := client.AddLabels(ctx, event.Issue.Number, conf.ReportLabel, conf.InProgressLabel); err != nil {
		action.Fatalf("Failed to label issue #%d: %v", event.Issue.Number, err)
	}

	if conf.Assignee != "" {
		if err := client.Assign(ctx, event.Issue.Number, conf.Assignee); err != nil {
			action.Warningf("Failed to assign issue #%d to %s: %v", event.Issue.Number, conf.Assignee, err)
		}
	}

	if err := run(ctx, action, client, conf, event); err != nil {
		reportFailure(ctx, action, client, conf, event.Issue.Number, err)
		action.Fatalf("Copilot seat report failed: %v", err)
	}

	action.Infof("Copilot seat report completed successfully")
}

// run executes the report pipeline for an accepted issue: resolve the
// organization, fetch the seats, write the artifact files, and post the
// result back to the issue.
func run(ctx context.Context, action *githubactions.Action, client *github.Client, conf core.Config, event *issueEvent) error {
	org, err := resolveOrganization(event.Issue.Body, conf.Organization)
	if err != nil {
		return err
	}

	action.Infof("Generating Copilot seat report for organization: %s", org)

	records, total, err := client.ListSeats(ctx, org)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("organization %s has no Copilot seats, or the token cannot read its billing data", org)
	}

	action.Infof("Found %d Copilot seats (API reports %d total)", len(records), total)

	report := core.Report{
		Organization: org,
		GeneratedAt:  time.Now().UTC(),
		TotalSeats:   total,
		Records:      records,
	}

	files, err := core.WriteReportFiles(conf.ReportDir, report)
	if err != nil {
		return err
	}

	// Outputs for a following upload-artifact step
	action.SetOutput("seat_count", strconv.Itoa(len(records)))
	action.SetOutput("report_dir", conf.ReportDir)
	action.SetOutput("report_json", files.JSONPath)
	action.SetOutput("report_csv", files.CSVPath)
	action.SetOutput("report_markdown", files.MarkdownPath)

	summary := core.Summarize(records, conf.InactiveDays, time.Now())
	comment := core.RenderComment(report, summary)

	if err := client.Comment(ctx, event.Issue.Number, comment); err != nil {
		return err
	}

	action.AddStepSummary(comment)

	if err := client.RemoveLabel(ctx, event.Issue.Number, conf.InProgressLabel); err != nil {
		action.Warningf("Failed to remove label %q from issue #%d: %v", conf.InProgressLabel, event.Issue.Number, err)
	}

	return client.AddLabels(ctx, event.Issue.Number, conf.CompletedLabel)
}

// resolveOrganization picks the org named in the issue body, falling back to
// the configured default only when the body names none at all. An explicit
// but invalid org line fails instead of silently reporting on the default.
func resolveOrganization(body, defaultOrg string) (string, error) {
	org, err := core.ExtractOrganization(body)
	if err == nil {
		return org, nil
	}

	if errors.Is(err, core.ErrNoOrganization) && defaultOrg != "" {
		return defaultOrg, nil
	}

	return "", fmt.Errorf("failed to determine target organization: %w", err)
}

// reportFailure posts the error back to the issue, swaps the labels, and
// closes it. Each step is best-effort so one API failure does not hide the
// original error.
func reportFailure(ctx context.Context, action *githubactions.Action, client *github.Client, conf core.Config, number int, runErr error) {
	body := fmt.Sprintf("Copilot seat report failed:\n\n```\n%v\n```\n\nClosing this issue. Open a new one to retry.", runErr)
	if err := client.Comment(ctx, number, body); err != nil {
		action.Warningf("Failed to post error comment on issue #%d: %v", number, err)
	}

	if err := client.RemoveLabel(ctx, number, conf.InProgressLabel); err != nil {
		action.Warningf("Failed to remove label %q from issue #%d: %v", conf.InProgressLabel, number, err)
	}

	if err := client.AddLabels(ctx, number, conf.ErrorLabel); err != nil {
		action.Warningf("Failed to add label %q to issue #%d: %v", conf.ErrorLabel, number, err)
	}

	if err := client.CloseIssue(ctx, number); err != nil {
		action.Warningf("Failed to close issue #%d: %v", number, err)
	}
}

// applyInputs overrides the env-derived configuration with action inputs.
func applyInputs(action *githubactions.Action, conf *core.Config) {
	if v := action.GetInput("github_token"); v != "" {
		conf.GithubToken = v
	}
	if v := action.GetInput("organization"); v != "" {
		conf.Organization = v
	}
	if v := action.GetInput("trigger_title"); v != "" {
		conf.TriggerTitle = v
	}
	if v := action.GetInput("report_label"); v != "" {
		conf.ReportLabel = v
	}
	if v := action.GetInput("in_progress_label"); v != "" {
		conf.InProgressLabel = v
	}
	if v := action.GetInput("completed_label"); v != "" {
		conf.CompletedLabel = v
	}
	if v := action.GetInput("error_label"); v != "" {
		conf.ErrorLabel = v
	}
	if v := action.GetInput("assignee"); v != "" {
		conf.Assignee = v
	}
	if v := action.GetInput("report_dir"); v != "" {
		conf.ReportDir = v
	}
	if v := action.GetInput("api_base_url"); v != "" {
		conf.BaseURL = v
	}
	if v := action.GetInput("inactive_days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			conf.InactiveDays = n
		}
	}
	if v := action.GetInput("debug"); v != "" {
		conf.LogDebug, _ = strconv.ParseBool(v)
	}
}

func readIssueEvent(path string) (*issueEvent, error) {
	if path == "" {
		return nil, fmt.Errorf("GITHUB_EVENT_PATH environment variable is not set")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	var event issueEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}

	if event.Issue.Number == 0 {
		return nil, fmt.Errorf("event payload has no issue")
	}

	return &event, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
