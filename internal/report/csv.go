// Package report turns derived PR metrics into the two CSV datasets
// this tool exports, plus a terminal summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/reillywatson/reviewlag/internal/github"
)

var firstReviewHeader = []string{
	"repo",
	"pr_number",
	"pr_url",
	"pr_title",
	"pr_author",
	"created_at",
	"merged_at",
	"is_draft",
	"first_review_at",
	"created_to_first_review_seconds",
	"earliest_review_requested_at",
	"review_requested_to_first_review_seconds",
	"last_commit_before_first_review_at",
	"last_commit_to_first_review_seconds",
}

var cycleHeader = []string{
	"repo",
	"pr_number",
	"pr_url",
	"cycle_index",
	"cycle_start_at",
	"cycle_end_at",
	"cycle_seconds",
	"cycle_trigger",
	"end_review_state",
	"end_reviewer",
}

// WriteFirstReviewsCSV writes one first-review latency row per PR.
// Absent values become empty cells.
func WriteFirstReviewsCSV(w io.Writer, repo string, results []github.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(firstReviewHeader); err != nil {
		return fmt.Errorf("failed to write first-review header: %w", err)
	}

	for _, result := range results {
		m := result.FirstReview
		record := []string{
			repo,
			strconv.Itoa(result.PR.Number),
			result.PR.URL,
			result.PR.Title,
			result.PR.Author,
			formatTime(m.CreatedAt),
			formatTimePtr(result.PR.MergedAt),
			strconv.FormatBool(result.PR.IsDraft),
			formatTimePtr(m.FirstReviewAt),
			formatSecondsPtr(m.CreatedToFirstReviewSeconds),
			formatTimePtr(m.EarliestReviewRequestedAt),
			formatSecondsPtr(m.ReviewRequestedToFirstReviewSeconds),
			formatTimePtr(m.LastCommitBeforeFirstReviewAt),
			formatSecondsPtr(m.LastCommitToFirstReviewSeconds),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write first-review row for PR #%d: %w", result.PR.Number, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCyclesCSV writes one row per re-review cycle, in PR order then
// cycle order.
func WriteCyclesCSV(w io.Writer, repo string, results []github.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cycleHeader); err != nil {
		return fmt.Errorf("failed to write cycle header: %w", err)
	}

	for _, result := range results {
		for _, cycle := range result.Cycles {
			record := []string{
				repo,
				strconv.Itoa(result.PR.Number),
				result.PR.URL,
				strconv.Itoa(cycle.Index),
				formatTime(cycle.StartAt),
				formatTime(cycle.EndAt),
				strconv.FormatInt(cycle.Seconds, 10),
				cycle.Trigger,
				cycle.EndReviewState,
				cycle.EndReviewer,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write cycle row for PR #%d: %w", result.PR.Number, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatTime renders a timestamp in UTC at seconds precision.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatSecondsPtr(s *int64) string {
	if s == nil {
		return ""
	}
	return strconv.FormatInt(*s, 10)
}
