package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v61/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client handles interaction with the GitHub API. It is scoped to the
// repository the action runs in; seat listing additionally takes the target
// organization per call.
type Client struct {
	client *github.Client
	owner  string
	repo   string
	logger *zap.Logger
}

// NewClient creates a new GitHub client authenticated with the given token.
func NewClient(token, repoFullName string, logger *zap.Logger) (*Client, error) {
	owner, repo, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository name %q, expected owner/repo", repoFullName)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
		logger: logger,
	}, nil
}

// NewOrgClient creates a client that only lists seats and is not tied to a
// repository. Issue operations on it fail with an error.
func NewOrgClient(token string, logger *zap.Logger) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
		logger: logger,
	}
}

// WithEnterpriseURL points the client at a GitHub Enterprise Server API
// instead of github.com.
func (c *Client) WithEnterpriseURL(baseURL string) error {
	gh, err := c.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}

	c.client = gh
	return nil
}

func (c *Client) repoScope() error {
	if c.owner == "" || c.repo == "" {
		return fmt.Errorf("client is not scoped to a repository")
	}
	return nil
}

// AddLabels adds labels to an issue, creating any that do not exist yet.
func (c *Client) AddLabels(ctx context.Context, number int, labels ...string) error {
	if err := c.repoScope(); err != nil {
		return err
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels to issue #%d: %w", number, err)
	}

	return nil
}

// RemoveLabel removes a label from an issue. A label that is not present on
// the issue is not an error.
func (c *Client) RemoveLabel(ctx context.Context, number int, label string) error {
	if err := c.repoScope(); err != nil {
		return err
	}

	resp, err := c.client.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to remove label %q from issue #%d: %w", label, number, err)
	}

	return nil
}

// Assign assigns users to an issue.
func (c *Client) Assign(ctx context.Context, number int, assignees ...string) error {
	if err := c.repoScope(); err != nil {
		return err
	}

	_, _, err := c.client.Issues.AddAssignees(ctx, c.owner, c.repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to assign issue #%d: %w", number, err)
	}

	return nil
}

// Comment posts a comment on an issue.
func (c *Client) Comment(ctx context.Context, number int, body string) error {
	if err := c.repoScope(); err != nil {
		return err
	}

	comment := &github.IssueComment{Body: github.String(body)}

	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to comment on issue #%d: %w", number, err)
	}

	return nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	if err := c.repoScope(); err != nil {
		return err
	}

	req := &github.IssueRequest{State: github.String("closed")}

	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, number, req)
	if err != nil {
		return fmt.Errorf("failed to close issue #%d: %w", number, err)
	}

	return nil
}
