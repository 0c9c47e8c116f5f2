package review

import "time"

// FirstReviewMetrics is the per-PR first-review latency record. Nil
// pointers mean the ingredient was absent (e.g. the PR has never been
// reviewed). Durations are whole seconds truncated toward zero and are
// deliberately not clamped: a negative value is a data-quality signal,
// not an error.
type FirstReviewMetrics struct {
	CreatedAt                           time.Time
	FirstReviewAt                       *time.Time
	CreatedToFirstReviewSeconds         *int64
	EarliestReviewRequestedAt           *time.Time
	ReviewRequestedToFirstReviewSeconds *int64
	LastCommitBeforeFirstReviewAt       *time.Time
	LastCommitToFirstReviewSeconds      *int64
}

// FirstReview computes the first-review latency metrics for a single
// PR from its normalized event sequence. It is a pure function and
// always produces a record; fields it can't compute stay nil.
func FirstReview(createdAt time.Time, events []Event) FirstReviewMetrics {
	m := FirstReviewMetrics{CreatedAt: createdAt}

	// First submitted review of any state, in sequence order.
	for _, ev := range events {
		if r, ok := ev.(ReviewEvent); ok {
			at := r.At
			m.FirstReviewAt = &at
			break
		}
	}

	// Earliest review request, independent of the first review.
	for _, ev := range events {
		if req, ok := ev.(ReviewRequestedEvent); ok {
			if m.EarliestReviewRequestedAt == nil || req.At.Before(*m.EarliestReviewRequestedAt) {
				at := req.At
				m.EarliestReviewRequestedAt = &at
			}
		}
	}

	if m.FirstReviewAt != nil {
		// Latest commit strictly before the first review.
		for _, ev := range events {
			c, ok := ev.(CommitEvent)
			if !ok || !c.At.Before(*m.FirstReviewAt) {
				continue
			}
			if m.LastCommitBeforeFirstReviewAt == nil || c.At.After(*m.LastCommitBeforeFirstReviewAt) {
				at := c.At
				m.LastCommitBeforeFirstReviewAt = &at
			}
		}

		m.CreatedToFirstReviewSeconds = wholeSeconds(createdAt, *m.FirstReviewAt)
		if m.EarliestReviewRequestedAt != nil {
			m.ReviewRequestedToFirstReviewSeconds = wholeSeconds(*m.EarliestReviewRequestedAt, *m.FirstReviewAt)
		}
		if m.LastCommitBeforeFirstReviewAt != nil {
			m.LastCommitToFirstReviewSeconds = wholeSeconds(*m.LastCommitBeforeFirstReviewAt, *m.FirstReviewAt)
		}
	}

	return m
}

// wholeSeconds returns end minus start in whole seconds, truncated
// toward zero. Go's integer division truncates toward zero for
// negative values too, which is exactly what we want.
func wholeSeconds(start, end time.Time) *int64 {
	s := int64(end.Sub(start) / time.Second)
	return &s
}
