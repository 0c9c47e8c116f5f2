// Package github retrieves pull requests and their timelines from the
// GitHub API. Everything here is plumbing: the actual metric
// derivations live in internal/review.
package github

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// GitHubClientInterface defines the GitHub operations the tracker
// needs. Mocked in tests, decorated by CachedGitHubClient.
type GitHubClientInterface interface {
	FetchPullRequests(owner, repo string, startDate, endDate time.Time) ([]*gh.PullRequest, error)
	FetchPullRequestReviews(owner, repo string, prNumber int) ([]*gh.PullRequestReview, error)
	FetchPullRequestCommits(owner, repo string, prNumber int) ([]*gh.RepositoryCommit, error)
	FetchIssueEvents(owner, repo string, prNumber int) ([]*gh.IssueEvent, error)
}

type GitHubClient struct {
	client *gh.Client
}

func NewGitHubClient(token string) *GitHubClient {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &GitHubClient{
		client: gh.NewClient(tc),
	}
}

// FetchPullRequests lists all PRs created in [startDate, endDate],
// newest first, walking pages until it sees PRs older than startDate.
func (c *GitHubClient) FetchPullRequests(owner, repo string, startDate, endDate time.Time) ([]*gh.PullRequest, error) {
	ctx := context.Background()
	var allPRs []*gh.PullRequest
	opts := &gh.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		prs, resp, err := c.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
		}

		for _, pr := range prs {
			if !pr.CreatedAt.Before(startDate) && !pr.CreatedAt.After(endDate) {
				allPRs = append(allPRs, pr)
			}
		}

		if resp.NextPage == 0 {
			break
		}

		// Listing is newest-first; once a page ends before our start
		// date there is nothing left to find.
		lastPR := prs[len(prs)-1]
		if lastPR.CreatedAt.Before(startDate) {
			break
		}
		opts.Page = resp.NextPage
	}

	return allPRs, nil
}

func (c *GitHubClient) FetchPullRequestReviews(owner, repo string, prNumber int) ([]*gh.PullRequestReview, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var allReviews []*gh.PullRequestReview
	opts := &gh.ListOptions{PerPage: 100}
	for {
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch reviews for PR #%d: %w", prNumber, err)
		}
		allReviews = append(allReviews, reviews...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allReviews, nil
}

func (c *GitHubClient) FetchPullRequestCommits(owner, repo string, prNumber int) ([]*gh.RepositoryCommit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var allCommits []*gh.RepositoryCommit
	opts := &gh.ListOptions{PerPage: 100}
	for {
		commits, resp, err := c.client.PullRequests.ListCommits(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch commits for PR #%d: %w", prNumber, err)
		}
		allCommits = append(allCommits, commits...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// FetchIssueEvents lists the issue events for a PR. This is where
// review_requested, ready_for_review, convert_to_draft and
// review_dismissed events come from.
func (c *GitHubClient) FetchIssueEvents(owner, repo string, prNumber int) ([]*gh.IssueEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var allEvents []*gh.IssueEvent
	opts := &gh.ListOptions{PerPage: 100}
	for {
		events, resp, err := c.client.Issues.ListIssueEvents(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issue events for PR #%d: %w", prNumber, err)
		}
		allEvents = append(allEvents, events...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allEvents, nil
}
