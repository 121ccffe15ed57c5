package core

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvHeader fixes the column order for all renderings of a SeatRecord.
var csvHeader = []string{
	"login",
	"last_activity_at",
	"last_activity_editor",
	"pending_cancellation_date",
	"created_at",
	"updated_at",
	"type",
	"site_admin",
	"url",
}

func recordRow(r SeatRecord) []string {
	return []string{
		r.Login,
		r.LastActivityAt,
		r.LastActivityEditor,
		r.PendingCancellationDate,
		r.CreatedAt,
		r.UpdatedAt,
		r.Type,
		strconv.FormatBool(r.SiteAdmin),
		r.URL,
	}
}

// WriteCSV writes the seat records as CSV with a fixed header row.
func WriteCSV(w io.Writer, records []SeatRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		if err := cw.Write(recordRow(r)); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.Login, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// MarkdownTable renders the seat records as a GitHub-flavored Markdown table
// in the same column order as the CSV.
func MarkdownTable(records []SeatRecord) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(csvHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(csvHeader)) + "\n")

	for _, r := range records {
		row := recordRow(r)
		for i, cell := range row {
			row[i] = escapeMarkdownCell(cell)
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String()
}

// RenderComment builds the issue comment body: a summary block followed by
// the full seat table.
func RenderComment(report Report, summary Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Copilot seat report for `%s`\n\n", report.Organization)
	fmt.Fprintf(&b, "Generated at %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Total seats: **%d**\n", summary.TotalSeats)
	fmt.Fprintf(&b, "- Active in the last %d days: **%d**\n", summary.WindowDays, summary.ActiveSeats)
	fmt.Fprintf(&b, "- Inactive: **%d**\n", summary.InactiveSeats)
	fmt.Fprintf(&b, "- Pending cancellation: **%d**\n", summary.PendingCancellation)

	if len(summary.Editors) > 0 {
		b.WriteString("- Last activity by editor:\n")
		for _, ec := range summary.SortedEditors() {
			fmt.Fprintf(&b, "  - %s: %d\n", ec.Editor, ec.Count)
		}
	}

	b.WriteString("\n")
	b.WriteString(MarkdownTable(report.Records))

	return b.String()
}

// ReportFiles holds the paths of the files written for artifact upload.
type ReportFiles struct {
	JSONPath     string
	CSVPath      string
	MarkdownPath string
}

// WriteReportFiles writes the JSON, CSV, and Markdown renderings of the
// report into dir, creating it if needed.
func WriteReportFiles(dir string, report Report) (ReportFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ReportFiles{}, fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	files := ReportFiles{
		JSONPath:     filepath.Join(dir, "copilot-seats.json"),
		CSVPath:      filepath.Join(dir, "copilot-seats.csv"),
		MarkdownPath: filepath.Join(dir, "copilot-seats.md"),
	}

	if err := writeFile(files.JSONPath, func(w io.Writer) error {
		return WriteJSON(w, report)
	}); err != nil {
		return ReportFiles{}, err
	}

	if err := writeFile(files.CSVPath, func(w io.Writer) error {
		return WriteCSV(w, report.Records)
	}); err != nil {
		return ReportFiles{}, err
	}

	if err := writeFile(files.MarkdownPath, func(w io.Writer) error {
		_, err := io.WriteString(w, MarkdownTable(report.Records))
		return err
	}); err != nil {
		return ReportFiles{}, err
	}

	return files, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
