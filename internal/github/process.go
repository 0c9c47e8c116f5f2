package github

import (
	"fmt"
	"slices"
	"sync"

	"github.com/reillywatson/reviewlag/internal/review"
)

// prFetchWorkers bounds concurrent per-PR timeline fetches.
const prFetchWorkers = 10

// Result bundles everything derived for one PR.
type Result struct {
	PR          PullRequest
	FirstReview review.FirstReviewMetrics
	Cycles      []review.Cycle
}

// ProcessPullRequests fetches each PR's timeline and derives its
// first-review metrics and re-review cycles. PRs by denylisted authors
// are skipped. Timelines are fetched with bounded parallelism, but
// each PR's derivation is independent and results come back in input
// order, so output is deterministic. Any fetch error aborts the whole
// run: partial metrics are worse than no metrics.
func ProcessPullRequests(client GitHubClientInterface, prs []PullRequest, owner, repo string, denylist []string) ([]Result, error) {
	var kept []PullRequest
	for _, pr := range prs {
		if slices.Contains(denylist, pr.Author) {
			continue
		}
		kept = append(kept, pr)
	}

	results := make([]Result, len(kept))
	errs := make([]error, len(kept))

	var wg sync.WaitGroup
	sem := make(chan struct{}, prFetchWorkers)
	for i, pr := range kept {
		wg.Add(1)
		go func(i int, pr PullRequest) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = processPullRequest(client, pr, owner, repo)
		}(i, pr)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func processPullRequest(client GitHubClientInterface, pr PullRequest, owner, repo string) (Result, error) {
	reviews, err := client.FetchPullRequestReviews(owner, repo, pr.Number)
	if err != nil {
		return Result{}, fmt.Errorf("PR #%d: %w", pr.Number, err)
	}
	commits, err := client.FetchPullRequestCommits(owner, repo, pr.Number)
	if err != nil {
		return Result{}, fmt.Errorf("PR #%d: %w", pr.Number, err)
	}
	issueEvents, err := client.FetchIssueEvents(owner, repo, pr.Number)
	if err != nil {
		return Result{}, fmt.Errorf("PR #%d: %w", pr.Number, err)
	}

	events := review.Normalize(reviews, commits, issueEvents)
	return Result{
		PR:          pr,
		FirstReview: review.FirstReview(pr.CreatedAt, events),
		Cycles:      review.Cycles(events, pr.Author),
	}, nil
}
