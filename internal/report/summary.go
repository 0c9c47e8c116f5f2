package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/reillywatson/reviewlag/internal/github"
)

// PrintSummary writes aggregate statistics to w: how many PRs were
// reviewed at all, mean/median created-to-first-review latency, and
// mean/median re-review cycle duration.
func PrintSummary(w io.Writer, results []github.Result) {
	var firstReviewLatencies []time.Duration
	var cycleDurations []time.Duration
	awaitingReview := 0

	for _, result := range results {
		if s := result.FirstReview.CreatedToFirstReviewSeconds; s != nil {
			firstReviewLatencies = append(firstReviewLatencies, time.Duration(*s)*time.Second)
		} else {
			awaitingReview++
		}
		for _, cycle := range result.Cycles {
			cycleDurations = append(cycleDurations, time.Duration(cycle.Seconds)*time.Second)
		}
	}

	fmt.Fprintln(w, "\nSummary Statistics:")
	fmt.Fprintln(w, "-----------------")
	fmt.Fprintf(w, "PRs: %d (%d never reviewed)\n", len(results), awaitingReview)

	if len(firstReviewLatencies) > 0 {
		fmt.Fprintln(w, "Time to First Review:")
		fmt.Fprintf(w, "  Mean: %v\n", mean(firstReviewLatencies))
		fmt.Fprintf(w, "  Median: %v\n", median(firstReviewLatencies))
	} else {
		fmt.Fprintln(w, "Time to First Review: No data")
	}

	if len(cycleDurations) > 0 {
		fmt.Fprintf(w, "Re-review Cycles: %d\n", len(cycleDurations))
		fmt.Fprintf(w, "  Mean: %v\n", mean(cycleDurations))
		fmt.Fprintf(w, "  Median: %v\n", median(cycleDurations))
	} else {
		fmt.Fprintln(w, "Re-review Cycles: 0")
	}
}

func mean(durations []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return (total / time.Duration(len(durations))).Truncate(time.Second)
}

// median returns the median of a slice of durations.
func median(durations []time.Duration) time.Duration {
	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 != 0 {
		return sorted[n/2]
	}
	return ((sorted[(n/2)-1] + sorted[n/2]) / 2).Truncate(time.Second)
}
