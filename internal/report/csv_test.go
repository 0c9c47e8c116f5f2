package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/reillywatson/reviewlag/internal/github"
	"github.com/reillywatson/reviewlag/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt64(v int64) *int64        { return &v }

func sampleResults() []github.Result {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	firstReview := created.Add(15 * time.Second)
	merged := created.Add(time.Hour)

	return []github.Result{
		{
			PR: github.PullRequest{
				Number:    7,
				Title:     "Add widget",
				URL:       "https://github.com/owner/repo/pull/7",
				Author:    "alice",
				CreatedAt: created,
				MergedAt:  &merged,
			},
			FirstReview: review.FirstReviewMetrics{
				CreatedAt:                   created,
				FirstReviewAt:               ptrTime(firstReview),
				CreatedToFirstReviewSeconds: ptrInt64(15),
			},
			Cycles: []review.Cycle{
				{
					Index:          1,
					StartAt:        created.Add(20 * time.Second),
					EndAt:          created.Add(30 * time.Second),
					Seconds:        10,
					Trigger:        review.TriggerAuthorCommit,
					EndReviewState: "APPROVED",
					EndReviewer:    "bob",
				},
			},
		},
		{
			PR: github.PullRequest{
				Number:    8,
				Title:     "Never reviewed",
				URL:       "https://github.com/owner/repo/pull/8",
				Author:    "carol",
				CreatedAt: created,
				IsDraft:   true,
			},
			FirstReview: review.FirstReviewMetrics{CreatedAt: created},
		},
	}
}

func TestWriteFirstReviewsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFirstReviewsCSV(&buf, "owner/repo", sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"repo", "pr_number", "pr_url", "pr_title", "pr_author",
		"created_at", "merged_at", "is_draft", "first_review_at",
		"created_to_first_review_seconds", "earliest_review_requested_at",
		"review_requested_to_first_review_seconds",
		"last_commit_before_first_review_at",
		"last_commit_to_first_review_seconds",
	}, records[0])

	assert.Equal(t, []string{
		"owner/repo", "7", "https://github.com/owner/repo/pull/7",
		"Add widget", "alice",
		"2024-03-01T12:00:00Z", "2024-03-01T13:00:00Z", "false",
		"2024-03-01T12:00:15Z", "15", "", "", "", "",
	}, records[1])

	// PR 8 was never reviewed: nullable columns are empty cells.
	assert.Equal(t, []string{
		"owner/repo", "8", "https://github.com/owner/repo/pull/8",
		"Never reviewed", "carol",
		"2024-03-01T12:00:00Z", "", "true", "", "", "", "", "", "",
	}, records[2])
}

func TestWriteCyclesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCyclesCSV(&buf, "owner/repo", sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"repo", "pr_number", "pr_url", "cycle_index", "cycle_start_at",
		"cycle_end_at", "cycle_seconds", "cycle_trigger",
		"end_review_state", "end_reviewer",
	}, records[0])

	assert.Equal(t, []string{
		"owner/repo", "7", "https://github.com/owner/repo/pull/7", "1",
		"2024-03-01T12:00:20Z", "2024-03-01T12:00:30Z", "10",
		"AUTHOR_COMMIT_AFTER_CR", "APPROVED", "bob",
	}, records[1])
}

func TestWriteCSVTimestampsRenderedInUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 3, 1, 15, 0, 0, 0, loc) // 12:00 UTC

	results := []github.Result{
		{
			PR:          github.PullRequest{Number: 1, CreatedAt: created},
			FirstReview: review.FirstReviewMetrics{CreatedAt: created},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFirstReviewsCSV(&buf, "owner/repo", results))
	assert.Contains(t, buf.String(), "2024-03-01T12:00:00Z")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleResults())

	out := buf.String()
	assert.Contains(t, out, "PRs: 2 (1 never reviewed)")
	assert.Contains(t, out, "Time to First Review:")
	assert.Contains(t, out, "Mean: 15s")
	assert.Contains(t, out, "Median: 15s")
	assert.Contains(t, out, "Re-review Cycles: 1")
}

func TestPrintSummaryNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, nil)

	out := buf.String()
	assert.Contains(t, out, "Time to First Review: No data")
	assert.Contains(t, out, "Re-review Cycles: 0")
	assert.False(t, strings.Contains(out, "Mean:"))
}
