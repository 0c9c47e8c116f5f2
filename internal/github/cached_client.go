package github

import (
	"log"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/reillywatson/reviewlag/internal/cache"
)

// CachedGitHubClient wraps GitHubClient with caching, so repeated runs
// over the same window don't spend API quota refetching timelines of
// PRs that can no longer change.
type CachedGitHubClient struct {
	client *GitHubClient
	cache  cache.Cache
	kb     *cache.CacheKeyBuilder
}

// NewCachedGitHubClient creates a new GitHub client with caching
func NewCachedGitHubClient(token string, cacheImpl cache.Cache) *CachedGitHubClient {
	return &CachedGitHubClient{
		client: NewGitHubClient(token),
		cache:  cacheImpl,
		kb:     cache.NewCacheKeyBuilder("github"),
	}
}

// FetchPullRequests fetches pull requests with caching
func (c *CachedGitHubClient) FetchPullRequests(owner, repo string, startDate, endDate time.Time) ([]*gh.PullRequest, error) {
	cacheKey := c.kb.PRsListKey(owner, repo, startDate, endDate)
	var cachedPRs []*gh.PullRequest
	if err := c.cache.Get(cacheKey, &cachedPRs); err == nil {
		return cachedPRs, nil
	} else if err != cache.ErrCacheMiss {
		log.Printf("Cache error for PRs list: %v", err)
	}

	prs, err := c.client.FetchPullRequests(owner, repo, startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Longer TTL for historical windows, shorter for recent ones.
	ttl := c.calculatePRListTTL(endDate)
	if err := c.cache.Set(cacheKey, prs, ttl); err != nil {
		log.Printf("Failed to cache PRs list: %v", err)
	}

	// Also remember each PR's state so the per-PR timeline fetches
	// below can pick a TTL.
	for _, pr := range prs {
		prKey := c.kb.PRKey(owner, repo, pr.GetNumber())
		if err := c.cache.Set(prKey, pr, 24*time.Hour); err != nil {
			log.Printf("Failed to cache individual PR #%d: %v", pr.GetNumber(), err)
		}
	}

	return prs, nil
}

// FetchPullRequestReviews fetches PR reviews with caching
func (c *CachedGitHubClient) FetchPullRequestReviews(owner, repo string, prNumber int) ([]*gh.PullRequestReview, error) {
	key := c.kb.PRReviewsKey(owner, repo, prNumber)
	var cached []*gh.PullRequestReview
	if hit := c.lookup(key, &cached, prNumber, "reviews"); hit {
		return cached, nil
	}

	reviews, err := c.client.FetchPullRequestReviews(owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	c.store(key, reviews, owner, repo, prNumber, "reviews")
	return reviews, nil
}

// FetchPullRequestCommits fetches PR commits with caching
func (c *CachedGitHubClient) FetchPullRequestCommits(owner, repo string, prNumber int) ([]*gh.RepositoryCommit, error) {
	key := c.kb.PRCommitsKey(owner, repo, prNumber)
	var cached []*gh.RepositoryCommit
	if hit := c.lookup(key, &cached, prNumber, "commits"); hit {
		return cached, nil
	}

	commits, err := c.client.FetchPullRequestCommits(owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	c.store(key, commits, owner, repo, prNumber, "commits")
	return commits, nil
}

// FetchIssueEvents fetches PR issue events with caching
func (c *CachedGitHubClient) FetchIssueEvents(owner, repo string, prNumber int) ([]*gh.IssueEvent, error) {
	key := c.kb.IssueEventsKey(owner, repo, prNumber)
	var cached []*gh.IssueEvent
	if hit := c.lookup(key, &cached, prNumber, "issue events"); hit {
		return cached, nil
	}

	events, err := c.client.FetchIssueEvents(owner, repo, prNumber)
	if err != nil {
		return nil, err
	}
	c.store(key, events, owner, repo, prNumber, "issue events")
	return events, nil
}

// lookup reports whether key was found, logging unexpected cache
// errors along the way.
func (c *CachedGitHubClient) lookup(key string, value interface{}, prNumber int, what string) bool {
	err := c.cache.Get(key, value)
	if err == nil {
		return true
	}
	if err != cache.ErrCacheMiss {
		log.Printf("Cache error for PR #%d %s: %v", prNumber, what, err)
	}
	return false
}

// store caches a per-PR timeline collection, with a long TTL when the
// PR is closed and a short one while it might still be changing.
func (c *CachedGitHubClient) store(key string, value interface{}, owner, repo string, prNumber int, what string) {
	ttl := 1 * time.Hour

	var pr *gh.PullRequest
	prKey := c.kb.PRKey(owner, repo, prNumber)
	if err := c.cache.Get(prKey, &pr); err == nil && pr.GetState() == "closed" {
		ttl = 24 * time.Hour
	}

	if err := c.cache.Set(key, value, ttl); err != nil {
		log.Printf("Failed to cache PR #%d %s: %v", prNumber, what, err)
	}
}

// calculatePRListTTL calculates TTL for PR list cache based on how recent the data is
func (c *CachedGitHubClient) calculatePRListTTL(endDate time.Time) time.Duration {
	daysSinceEnd := time.Since(endDate).Hours() / 24

	// Historical data (older than 7 days): cache for 24 hours
	if daysSinceEnd > 7 {
		return 24 * time.Hour
	}

	// Recent data (last 7 days): cache for 1 hour
	return 1 * time.Hour
}

// Close cleans up the client
func (c *CachedGitHubClient) Close() error {
	return c.cache.Close()
}
