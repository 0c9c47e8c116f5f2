// Command review-lag computes pull-request code-review latency metrics
// for a repository and writes two CSV datasets: per-PR first-review
// latencies and re-review cycles following "changes requested" reviews.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/reillywatson/reviewlag/internal/cache"
	"github.com/reillywatson/reviewlag/internal/github"
	"github.com/reillywatson/reviewlag/internal/report"
)

func main() {
	startDateStr := flag.String("since", "", "Start date in YYYY-MM-DD format (defaults to 30 days ago)")
	endDateStr := flag.String("until", "", "End date in YYYY-MM-DD format (defaults to now)")
	denyListStr := flag.String("exclude", "", "Comma-separated list of GitHub usernames whose PRs to ignore")
	firstReviewsFile := flag.String("first-reviews", "first_reviews.csv", "Output CSV for first-review latency rows")
	cyclesFile := flag.String("cycles", "review_cycles.csv", "Output CSV for re-review cycle rows")
	clearCache := flag.Bool("clear-cache", false, "Clear the local API cache before running")

	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: review-lag [flags] owner/repo")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	repoArg := args[0]
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		log.Fatal("Invalid repository format. Use 'owner/repo'")
	}
	owner := parts[0]
	repo := parts[1]

	var denylist []string
	if *denyListStr != "" {
		denylist = strings.Split(*denyListStr, ",")
	}

	startDate := time.Now().AddDate(0, 0, -30) // Default to 30 days ago
	if *startDateStr != "" {
		parsedDate, err := time.Parse("2006-01-02", *startDateStr)
		if err != nil {
			log.Fatalf("Invalid date format. Please use YYYY-MM-DD: %v", err)
		}
		startDate = parsedDate
	}
	endDate := time.Now() // Default to now
	if *endDateStr != "" {
		parsedDate, err := time.Parse("2006-01-02", *endDateStr)
		if err != nil {
			log.Fatalf("Invalid date format. Please use YYYY-MM-DD: %v", err)
		}
		endDate = parsedDate
	}
	if startDate.After(endDate) {
		log.Fatal("Start date cannot be after end date")
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Fatal("GITHUB_TOKEN environment variable not set")
	}

	fileCache, err := cache.NewFileCache("reviewlag")
	if err != nil {
		log.Fatalf("Error creating cache: %v", err)
	}
	if *clearCache {
		if err := fileCache.Clear(); err != nil {
			log.Fatalf("Error clearing cache: %v", err)
		}
	}

	client := github.NewCachedGitHubClient(token, fileCache)
	defer client.Close()

	fmt.Printf("Fetching PRs for %s/%s from %s to %s...\n", owner, repo, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	rawPRs, err := client.FetchPullRequests(owner, repo, startDate, endDate)
	if err != nil {
		log.Fatalf("Error fetching pull requests: %v", err)
	}
	fmt.Printf("Found %d pull requests for %s/%s\n", len(rawPRs), owner, repo)

	prs := make([]github.PullRequest, 0, len(rawPRs))
	for _, pr := range rawPRs {
		prs = append(prs, github.NewPullRequest(pr))
	}

	results, err := github.ProcessPullRequests(client, prs, owner, repo, denylist)
	if err != nil {
		log.Fatalf("Error processing pull requests: %v", err)
	}

	if err := writeCSV(*firstReviewsFile, repoArg, results, report.WriteFirstReviewsCSV); err != nil {
		log.Fatalf("Error writing first-review CSV: %v", err)
	}
	fmt.Printf("Wrote %s\n", *firstReviewsFile)

	if err := writeCSV(*cyclesFile, repoArg, results, report.WriteCyclesCSV); err != nil {
		log.Fatalf("Error writing cycles CSV: %v", err)
	}
	fmt.Printf("Wrote %s\n", *cyclesFile)

	report.PrintSummary(os.Stdout, results)
}

func writeCSV(path, repo string, results []github.Result, write func(w io.Writer, repo string, results []github.Result) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, repo, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
