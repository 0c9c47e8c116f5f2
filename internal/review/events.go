// Package review derives code-review latency metrics from a pull
// request's timeline. Everything in here is pure computation: callers
// fetch the raw GitHub data, Normalize turns it into a single ordered
// event sequence, and the calculators produce metric records from that
// sequence.
package review

import (
	"slices"
	"time"

	"github.com/google/go-github/v62/github"
)

// Review states we care about. Anything else (PENDING, DISMISSED) is
// not a submitted review and never enters the event sequence.
const (
	StateApproved         = "APPROVED"
	StateChangesRequested = "CHANGES_REQUESTED"
	StateCommented        = "COMMENTED"
)

// TeamPrefix marks a requested reviewer that is a team rather than an
// individual. The prefix survives all the way to the output rows.
const TeamPrefix = "team:"

// Event is the sealed interface for a single timestamped occurrence in
// a PR's history. All event types must implement the unexported
// isTimelineEvent method.
type Event interface {
	// When returns the event timestamp. Events without a usable
	// timestamp are dropped during normalization, so When is always
	// non-zero.
	When() time.Time

	isTimelineEvent()
}

func (ReviewEvent) isTimelineEvent()               {}
func (ReviewRequestedEvent) isTimelineEvent()      {}
func (ReviewRequestRemovedEvent) isTimelineEvent() {}
func (CommitEvent) isTimelineEvent()               {}
func (ReadyForReviewEvent) isTimelineEvent()       {}
func (ConvertToDraftEvent) isTimelineEvent()       {}
func (ReviewDismissedEvent) isTimelineEvent()      {}

// ReviewEvent is a submitted review of any state.
type ReviewEvent struct {
	State    string
	At       time.Time
	Reviewer string // login, or empty if unknown
}

// ReviewRequestedEvent is sent when a review is requested from a user
// or a team.
type ReviewRequestedEvent struct {
	At        time.Time
	Requested string // login or team:<slug>, empty if unknown
}

// ReviewRequestRemovedEvent is sent when a pending review request is
// withdrawn.
type ReviewRequestRemovedEvent struct {
	At        time.Time
	Requested string
}

// CommitEvent is a commit pushed to the PR branch.
type CommitEvent struct {
	At  time.Time
	SHA string
}

// ReadyForReviewEvent marks the PR leaving draft state.
type ReadyForReviewEvent struct {
	At time.Time
}

// ConvertToDraftEvent marks the PR going back to draft state.
type ConvertToDraftEvent struct {
	At time.Time
}

// ReviewDismissedEvent marks a previously submitted review being
// dismissed.
type ReviewDismissedEvent struct {
	At time.Time
}

func (e ReviewEvent) When() time.Time               { return e.At }
func (e ReviewRequestedEvent) When() time.Time      { return e.At }
func (e ReviewRequestRemovedEvent) When() time.Time { return e.At }
func (e CommitEvent) When() time.Time               { return e.At }
func (e ReadyForReviewEvent) When() time.Time       { return e.At }
func (e ConvertToDraftEvent) When() time.Time       { return e.At }
func (e ReviewDismissedEvent) When() time.Time      { return e.At }

// Normalize converts the raw per-PR collections fetched from GitHub
// into a single event sequence sorted ascending by timestamp. Items
// lacking a required timestamp are dropped rather than failing the
// whole PR, and unknown issue event types are ignored so new GitHub
// event kinds don't break us.
//
// The sort is stable, so events with equal timestamps keep their input
// order: reviews first, then commits, then issue events, each in the
// order GitHub returned them.
func Normalize(reviews []*github.PullRequestReview, commits []*github.RepositoryCommit, issueEvents []*github.IssueEvent) []Event {
	events := make([]Event, 0, len(reviews)+len(commits)+len(issueEvents))

	for _, r := range reviews {
		state := r.GetState()
		if state != StateApproved && state != StateChangesRequested && state != StateCommented {
			continue
		}
		if r.SubmittedAt == nil {
			continue
		}
		events = append(events, ReviewEvent{
			State:    state,
			At:       r.SubmittedAt.Time,
			Reviewer: r.GetUser().GetLogin(),
		})
	}

	for _, c := range commits {
		committed := c.GetCommit().GetCommitter().GetDate()
		if committed.IsZero() {
			continue
		}
		events = append(events, CommitEvent{
			At:  committed.Time,
			SHA: c.GetSHA(),
		})
	}

	for _, ev := range issueEvents {
		if ev.CreatedAt == nil {
			continue
		}
		at := ev.CreatedAt.Time
		switch ev.GetEvent() {
		case "review_requested":
			events = append(events, ReviewRequestedEvent{At: at, Requested: requestedParty(ev)})
		case "review_request_removed":
			events = append(events, ReviewRequestRemovedEvent{At: at, Requested: requestedParty(ev)})
		case "ready_for_review":
			events = append(events, ReadyForReviewEvent{At: at})
		case "convert_to_draft":
			events = append(events, ConvertToDraftEvent{At: at})
		case "review_dismissed":
			events = append(events, ReviewDismissedEvent{At: at})
		}
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return a.When().Compare(b.When())
	})
	return events
}

// requestedParty extracts the requested reviewer from a
// review_requested / review_request_removed event, distinguishing team
// requests from individual ones.
func requestedParty(ev *github.IssueEvent) string {
	if team := ev.GetRequestedTeam(); team != nil {
		return TeamPrefix + team.GetSlug()
	}
	return ev.GetRequestedReviewer().GetLogin()
}
