package github

import (
	"time"

	gh "github.com/google/go-github/v62/github"
)

// PullRequest is the minimal PR metadata the derivations and export
// rows need. It is read-only to the metrics code.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	IsDraft   bool       `json:"is_draft"`
}

// NewPullRequest extracts our metadata record from the API object.
func NewPullRequest(pr *gh.PullRequest) PullRequest {
	out := PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		Author:    pr.GetUser().GetLogin(),
		CreatedAt: pr.GetCreatedAt().Time,
		IsDraft:   pr.GetDraft(),
	}
	if pr.MergedAt != nil {
		merged := pr.MergedAt.Time
		out.MergedAt = &merged
	}
	return out
}
