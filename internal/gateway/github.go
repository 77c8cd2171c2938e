// Package gateway provides a gateway to the GitHub search API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// Counter defines the behavior of a gateway that counts pull requests
// matching a search query.
type Counter interface {
	CountPullRequests(ctx context.Context, query string) (int, error)
}

// GitHubGateway counts pull requests through the GitHub search API. The
// REST path reads total_count from the issue search endpoint; the GraphQL
// path reads issueCount from the search connection. Both share one HTTP
// client with a bounded per-request deadline.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	useGraphQL    bool
	logger        *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional: without it requests run unauthenticated at the
// lower anonymous rate-limit ceiling.
func NewGitHubGateway(token string, timeout time.Duration, useGraphQL bool, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		useGraphQL:    useGraphQL,
		logger:        logger,
	}, nil
}

// CountPullRequests returns the number of pull requests matching the query.
func (g *GitHubGateway) CountPullRequests(ctx context.Context, query string) (int, error) {
	if g.useGraphQL {
		return g.countGraphQL(ctx, query)
	}
	return g.countREST(ctx, query)
}

func (g *GitHubGateway) countREST(ctx context.Context, query string) (int, error) {
	g.logger.Printf("Counting pull requests via REST API: %s", query)
	// Only total_count is consumed, so request the smallest possible page.
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Issues(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to search pull requests %q: %w", query, err)
	}
	return result.GetTotal(), nil
}

func (g *GitHubGateway) countGraphQL(ctx context.Context, query string) (int, error) {
	g.logger.Printf("Counting pull requests via GraphQL API: %s", query)
	var q struct {
		Search struct {
			IssueCount githubv4.Int
		} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
	}
	variables := map[string]interface{}{
		"query": githubv4.String(query),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL count query for %q: %w", query, err)
	}
	return int(q.Search.IssueCount), nil
}
