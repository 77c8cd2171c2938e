package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler, useGraphQL bool) (*GitHubGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gw := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		useGraphQL:    useGraphQL,
		logger:        logger,
	}

	return gw, server
}

func TestGitHubGateway_CountPullRequests_REST(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedCount  int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - returns total_count",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.String(), "/search/issues")
				assert.Contains(t, r.URL.RawQuery, "per_page=1")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 12345, "items": []}`)
			},
			expectedCount: 12345,
			expectError:   false,
		},
		{
			name: "happy path - zero matches",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 0, "items": []}`)
			},
			expectedCount: 0,
			expectError:   false,
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to search pull requests",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc), false)
			defer server.Close()
			count, err := gw.CountPullRequests(context.Background(), "is:pr head:copilot/")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCount, count)
			}
		})
	}
}

func TestGitHubGateway_CountPullRequests_GraphQL(t *testing.T) {
	testCases := []struct {
		name           string
		queryContains  string
		responseBody   string
		expectedCount  int
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:          "happy path - returns issueCount",
			queryContains: "is:pr head:codex/",
			responseBody:  `{"data":{"search":{"issueCount":678}}}`,
			expectedCount: 678,
			expectError:   false,
		},
		{
			name:           "error case - GraphQL errors",
			queryContains:  "is:pr head:codex/",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL count query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tc.queryContains)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gw, server := setupTestGateway(t, http.HandlerFunc(handler), true)
			defer server.Close()

			count, err := gw.CountPullRequests(context.Background(), "is:pr head:codex/")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCount, count)
			}
		})
	}
}
