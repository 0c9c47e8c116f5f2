package review

import "time"

// Cycle triggers: what restarted the review conversation after a
// CHANGES_REQUESTED review.
const (
	TriggerAuthorCommit    = "AUTHOR_COMMIT_AFTER_CR"
	TriggerReviewRequested = "REVIEW_REQUESTED_AFTER_CR"
)

// Cycle is one re-review round: from the follow-up to a
// CHANGES_REQUESTED review until the next submitted review.
type Cycle struct {
	// Index is the 1-based position of the triggering
	// CHANGES_REQUESTED review among all CHANGES_REQUESTED reviews on
	// the PR. A CR that produces no cycle still consumes its index, so
	// emitted indices may have gaps.
	Index          int
	StartAt        time.Time
	EndAt          time.Time
	Seconds        int64
	Trigger        string
	EndReviewState string
	EndReviewer    string
}

// Cycles extracts re-review cycles from a PR's normalized event
// sequence. The author login is part of the signature for future
// filtering of author commits but is not consulted yet.
//
// For each CHANGES_REQUESTED review, the cycle starts at the earliest
// commit after it, falling back to the earliest review request after
// it. The search runs independently per CR, so one commit can start
// several cycles when it is the earliest qualifying commit for more
// than one CR. The cycle ends at the earliest review (any state, any
// reviewer) after the start; a CR with no qualifying start or no
// subsequent review yields no cycle at all.
func Cycles(events []Event, author string) []Cycle {
	var reviews []ReviewEvent
	var commits []CommitEvent
	var requests []ReviewRequestedEvent
	for _, ev := range events {
		switch e := ev.(type) {
		case ReviewEvent:
			reviews = append(reviews, e)
		case CommitEvent:
			commits = append(commits, e)
		case ReviewRequestedEvent:
			requests = append(requests, e)
		}
	}

	var cycles []Cycle
	idx := 0
	for _, cr := range reviews {
		if cr.State != StateChangesRequested {
			continue
		}
		idx++

		var start *time.Time
		trigger := ""
		for _, c := range commits {
			if c.At.After(cr.At) {
				at := c.At
				start = &at
				trigger = TriggerAuthorCommit
				break
			}
		}
		if start == nil {
			for _, req := range requests {
				if req.At.After(cr.At) {
					at := req.At
					start = &at
					trigger = TriggerReviewRequested
					break
				}
			}
		}
		if start == nil {
			// No follow-up after this CR; its index slot is consumed
			// but no cycle is emitted.
			continue
		}

		var end *ReviewEvent
		for i := range reviews {
			if reviews[i].At.After(*start) {
				end = &reviews[i]
				break
			}
		}
		if end == nil {
			continue
		}

		cycles = append(cycles, Cycle{
			Index:          idx,
			StartAt:        *start,
			EndAt:          end.At,
			Seconds:        *wholeSeconds(*start, end.At),
			Trigger:        trigger,
			EndReviewState: end.State,
			EndReviewer:    end.Reviewer,
		})
	}
	return cycles
}
