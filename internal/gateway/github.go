// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/streak-keeper/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchViewer returns the login of the authenticated user.
	FetchViewer(ctx context.Context) (string, error)
	// FetchRepositories returns the user's repositories, oldest-updated first.
	FetchRepositories(ctx context.Context) ([]domain.Repository, error)
	// FetchContributionCalendar returns the user's per-day contribution counts
	// for the trailing year.
	FetchContributionCalendar(ctx context.Context, login string) ([]domain.ContributionDay, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// contributionsQuery fetches the per-day contribution calendar for a user.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchViewer returns the login of the user the token belongs to.
func (g *GitHubGateway) FetchViewer(ctx context.Context) (string, error) {
	g.logger.Println("Fetching authenticated user via REST API...")
	user, _, err := g.restClient.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to fetch authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// FetchRepositories lists the authenticated user's repositories sorted by
// last update, oldest first. Stale repositories make the best candidates
// for streak commits, so they sort to the front.
func (g *GitHubGateway) FetchRepositories(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Println("Fetching repository list via REST API...")
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var repos []domain.Repository
	for {
		page, resp, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		for _, r := range page {
			repos = append(repos, domain.Repository{
				Name:      r.GetName(),
				Language:  r.GetLanguage(),
				UpdatedAt: r.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	sort.Slice(repos, func(i, j int) bool {
		return repos[i].UpdatedAt.Before(repos[j].UpdatedAt)
	})
	g.logger.Printf("Completed fetching %d repositories.\n", len(repos))
	return repos, nil
}

// FetchContributionCalendar fetches the trailing year of per-day contribution
// counts for the given login using the GraphQL API.
func (g *GitHubGateway) FetchContributionCalendar(ctx context.Context, login string) ([]domain.ContributionDay, error) {
	g.logger.Printf("Fetching contribution calendar for %s via GraphQL API...\n", login)
	variables := map[string]interface{}{
		"login": githubv4.String(login),
	}
	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to fetch contribution calendar: %w", err)
	}

	var days []domain.ContributionDay
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			days = append(days, domain.ContributionDay{
				Date:  day.Date,
				Count: day.ContributionCount,
			})
		}
	}
	g.logger.Printf("Completed fetching contribution calendar (%d days).\n", len(days))
	return days, nil
}
