package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-github/v61/github"
	"go.uber.org/zap"

	"github.com/copilotops/seats-report-action/pkg/core"
)

const (
	seatsPerPage = 100
	maxRetries   = 3
)

// Vars so tests can shorten the backoff.
var (
	rateLimitResetBuffer = 5 * time.Second
	fallbackRetryWait    = 60 * time.Second
)

// ListSeats fetches every Copilot seat of the organization, following
// pagination, and projects each seat into the reduced per-user record. The
// returned records are sorted by login; the int is the API's total seat
// count.
func (c *Client) ListSeats(ctx context.Context, org string) ([]core.SeatRecord, int, error) {
	var records []core.SeatRecord
	var total int

	opts := &github.ListOptions{PerPage: seatsPerPage}

	for {
		var (
			seats *github.ListCopilotSeatsResponse
			resp  *github.Response
		)

		err := c.withRetry(ctx, func() error {
			var err error
			seats, resp, err = c.client.Copilot.ListCopilotSeats(ctx, org, opts)
			return err
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list Copilot seats for %s (page %d): %w", org, opts.Page, err)
		}

		total = int(seats.TotalSeats)
		for _, seat := range seats.Seats {
			records = append(records, seatRecord(seat))
		}

		c.logger.Debug("fetched copilot seats page",
			zap.String("org", org),
			zap.Int("page", opts.Page),
			zap.Int("seats", len(seats.Seats)),
		)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	core.SortRecords(records)

	return records, total, nil
}

// withRetry runs call, retrying when GitHub reports a primary or secondary
// rate limit. Any other error fails immediately.
func (c *Client) withRetry(ctx context.Context, call func() error) error {
	for attempt := 0; ; attempt++ {
		err := call()
		if err == nil {
			return nil
		}

		wait, rateLimited := rateLimitWait(err)
		if !rateLimited || attempt == maxRetries-1 {
			return err
		}

		c.logger.Warn("github rate limit hit, backing off",
			zap.Duration("wait", wait),
			zap.Int("retriesRemaining", maxRetries-attempt-1),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// rateLimitWait maps a go-github error to how long to wait before retrying.
// Primary rate limits wait until the reset time plus a small buffer;
// secondary limits honor Retry-After when present.
func rateLimitWait(err error) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		if d := time.Until(rateErr.Rate.Reset.Time) + rateLimitResetBuffer; d > 0 {
			return d, true
		}
		return fallbackRetryWait, true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if abuseErr.RetryAfter != nil && *abuseErr.RetryAfter > 0 {
			return *abuseErr.RetryAfter, true
		}
		return fallbackRetryWait, true
	}

	return 0, false
}

// seatRecord projects an API seat into the reduced record. Only user
// assignees carry login, type, site_admin, and url; team and organization
// assignees keep those fields empty.
func seatRecord(seat *github.CopilotSeatDetails) core.SeatRecord {
	rec := core.SeatRecord{
		LastActivityEditor:      seat.GetLastActivityEditor(),
		PendingCancellationDate: seat.GetPendingCancellationDate(),
	}

	if ts := seat.GetLastActivityAt(); !ts.IsZero() {
		rec.LastActivityAt = ts.UTC().Format(time.RFC3339)
	}
	if ts := seat.GetCreatedAt(); !ts.IsZero() {
		rec.CreatedAt = ts.UTC().Format(time.RFC3339)
	}
	if ts := seat.GetUpdatedAt(); !ts.IsZero() {
		rec.UpdatedAt = ts.UTC().Format(time.RFC3339)
	}

	if user, ok := seat.GetUser(); ok {
		rec.Login = user.GetLogin()
		rec.Type = user.GetType()
		rec.SiteAdmin = user.GetSiteAdmin()
		rec.URL = user.GetURL()
	}

	return rec
}
