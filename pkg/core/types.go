package core

import "time"

// SeatRecord is the reduced per-user projection of an organization Copilot
// seat as returned by the billing API. Timestamps are kept as the API's
// RFC 3339 strings (empty when the API omits them) so the JSON, CSV, and
// Markdown renderings all agree byte-for-byte.
type SeatRecord struct {
	Login                   string `json:"login"`
	LastActivityAt          string `json:"last_activity_at"`
	LastActivityEditor      string `json:"last_activity_editor"`
	PendingCancellationDate string `json:"pending_cancellation_date"`
	CreatedAt               string `json:"created_at"`
	UpdatedAt               string `json:"updated_at"`
	Type                    string `json:"type"`
	SiteAdmin               bool   `json:"site_admin"`
	URL                     string `json:"url"`
}

// Report is the transient result of one run. It exists only between the
// billing API call and the end of the workflow execution.
type Report struct {
	Organization string       `json:"organization"`
	GeneratedAt  time.Time    `json:"generated_at"`
	TotalSeats   int          `json:"total_seats"`
	Records      []SeatRecord `json:"seats"`
}
