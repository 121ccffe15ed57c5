package core

import (
	"sort"
	"time"
)

// Summary aggregates a seat list for the comment header.
type Summary struct {
	TotalSeats          int
	ActiveSeats         int
	InactiveSeats       int
	PendingCancellation int
	WindowDays          int
	Editors             map[string]int
}

// EditorCount is one row of the per-editor breakdown.
type EditorCount struct {
	Editor string
	Count  int
}

// Summarize computes seat totals and the per-editor activity breakdown. A
// seat counts as active when its last activity falls within windowDays of
// now; seats with no or unparseable last_activity_at count as inactive.
func Summarize(records []SeatRecord, windowDays int, now time.Time) Summary {
	s := Summary{
		TotalSeats: len(records),
		WindowDays: windowDays,
		Editors:    make(map[string]int),
	}

	cutoff := now.AddDate(0, 0, -windowDays)

	for _, r := range records {
		if r.PendingCancellationDate != "" {
			s.PendingCancellation++
		}

		if r.LastActivityEditor != "" {
			s.Editors[r.LastActivityEditor]++
		}

		if t, err := time.Parse(time.RFC3339, r.LastActivityAt); err == nil && t.After(cutoff) {
			s.ActiveSeats++
		} else {
			s.InactiveSeats++
		}
	}

	return s
}

// SortedEditors returns the editor breakdown ordered by descending count,
// ties broken by editor name, so the rendered comment is deterministic.
func (s Summary) SortedEditors() []EditorCount {
	out := make([]EditorCount, 0, len(s.Editors))
	for editor, count := range s.Editors {
		out = append(out, EditorCount{Editor: editor, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Editor < out[j].Editor
	})

	return out
}

// SortRecords orders seat records by login so every rendering of the same
// seat list is byte-identical across runs.
func SortRecords(records []SeatRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Login < records[j].Login
	})
}
