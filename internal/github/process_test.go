package github

import (
	"errors"
	"testing"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/reillywatson/reviewlag/internal/review"
)

// MockGitHubClient implements GitHubClientInterface for testing
type MockGitHubClient struct {
	reviews     []*gh.PullRequestReview
	commits     []*gh.RepositoryCommit
	issueEvents []*gh.IssueEvent
	err         error
}

func (m *MockGitHubClient) FetchPullRequests(owner, repo string, startDate, endDate time.Time) ([]*gh.PullRequest, error) {
	// Not used in ProcessPullRequests tests since PRs are passed as parameter
	return nil, nil
}

func (m *MockGitHubClient) FetchPullRequestReviews(owner, repo string, prNumber int) ([]*gh.PullRequestReview, error) {
	return m.reviews, m.err
}

func (m *MockGitHubClient) FetchPullRequestCommits(owner, repo string, prNumber int) ([]*gh.RepositoryCommit, error) {
	return m.commits, m.err
}

func (m *MockGitHubClient) FetchIssueEvents(owner, repo string, prNumber int) ([]*gh.IssueEvent, error) {
	return m.issueEvents, m.err
}

func TestProcessPullRequests_SkipDenylistedAuthors(t *testing.T) {
	client := &MockGitHubClient{}

	prs := []PullRequest{
		{Number: 1, Author: "denylisted-author", CreatedAt: time.Now()},
	}
	results, err := ProcessPullRequests(client, prs, "owner", "repo", []string{"denylisted-author"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("Expected 0 results for denylisted author, got %d", len(results))
	}
}

func TestProcessPullRequests_PRWithoutReviews(t *testing.T) {
	client := &MockGitHubClient{}

	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prs := []PullRequest{
		{Number: 1, Title: "Basic PR", Author: "author", CreatedAt: createdAt},
	}
	results, err := ProcessPullRequests(client, prs, "owner", "repo", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	result := results[0]
	if result.PR.Number != 1 {
		t.Errorf("Expected PR number 1, got %d", result.PR.Number)
	}
	if result.FirstReview.FirstReviewAt != nil {
		t.Errorf("Expected no first review, got %v", result.FirstReview.FirstReviewAt)
	}
	if len(result.Cycles) != 0 {
		t.Errorf("Expected 0 cycles, got %d", len(result.Cycles))
	}
}

func TestProcessPullRequests_DerivesMetricsAndCycles(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	crAt := createdAt.Add(10 * time.Second)
	commitAt := createdAt.Add(20 * time.Second)
	approveAt := createdAt.Add(30 * time.Second)

	client := &MockGitHubClient{
		reviews: []*gh.PullRequestReview{
			{
				User:        &gh.User{Login: gh.String("reviewer")},
				State:       gh.String("CHANGES_REQUESTED"),
				SubmittedAt: &gh.Timestamp{Time: crAt},
			},
			{
				User:        &gh.User{Login: gh.String("reviewer")},
				State:       gh.String("APPROVED"),
				SubmittedAt: &gh.Timestamp{Time: approveAt},
			},
		},
		commits: []*gh.RepositoryCommit{
			{
				SHA: gh.String("abc123"),
				Commit: &gh.Commit{
					Committer: &gh.CommitAuthor{Date: &gh.Timestamp{Time: commitAt}},
				},
			},
		},
	}

	prs := []PullRequest{
		{Number: 7, Title: "PR with a re-review cycle", Author: "author", CreatedAt: createdAt},
	}
	results, err := ProcessPullRequests(client, prs, "owner", "repo", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	result := results[0]

	if result.FirstReview.FirstReviewAt == nil {
		t.Fatal("Expected a first review")
	}
	if !result.FirstReview.FirstReviewAt.Equal(crAt) {
		t.Errorf("Expected first review at %v, got %v", crAt, *result.FirstReview.FirstReviewAt)
	}
	if result.FirstReview.CreatedToFirstReviewSeconds == nil || *result.FirstReview.CreatedToFirstReviewSeconds != 10 {
		t.Errorf("Expected created->first review of 10s, got %v", result.FirstReview.CreatedToFirstReviewSeconds)
	}

	if len(result.Cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(result.Cycles))
	}
	cycle := result.Cycles[0]
	if cycle.Index != 1 {
		t.Errorf("Expected cycle index 1, got %d", cycle.Index)
	}
	if cycle.Trigger != review.TriggerAuthorCommit {
		t.Errorf("Expected trigger %s, got %s", review.TriggerAuthorCommit, cycle.Trigger)
	}
	if cycle.Seconds != 10 {
		t.Errorf("Expected cycle of 10s, got %d", cycle.Seconds)
	}
	if cycle.EndReviewState != "APPROVED" {
		t.Errorf("Expected end review state APPROVED, got %s", cycle.EndReviewState)
	}
}

func TestProcessPullRequests_FetchErrorAbortsRun(t *testing.T) {
	fetchErr := errors.New("boom")
	client := &MockGitHubClient{err: fetchErr}

	prs := []PullRequest{
		{Number: 1, Author: "author", CreatedAt: time.Now()},
	}
	_, err := ProcessPullRequests(client, prs, "owner", "repo", nil)
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected wrapped fetch error, got %v", err)
	}
}

func TestProcessPullRequests_ResultsKeepInputOrder(t *testing.T) {
	client := &MockGitHubClient{}

	var prs []PullRequest
	for i := 1; i <= 25; i++ {
		prs = append(prs, PullRequest{Number: i, Author: "author", CreatedAt: time.Now()})
	}
	results, err := ProcessPullRequests(client, prs, "owner", "repo", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(results) != len(prs) {
		t.Fatalf("Expected %d results, got %d", len(prs), len(results))
	}
	for i, result := range results {
		if result.PR.Number != i+1 {
			t.Errorf("Result %d has PR number %d, want %d", i, result.PR.Number, i+1)
		}
	}
}
