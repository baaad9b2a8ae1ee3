package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
)

const defaultEndpoint = "https://api.github.com/graphql"

// pendingPRsQuery finds the user's open PRs with enough review and CI
// detail to classify each reviewer and the last commit's status rollup.
const pendingPRsQuery = `{
  search(query: "type:pr state:open author:%s", type: ISSUE, first: 100) {
    edges {
      node {
        ... on PullRequest {
          repository { nameWithOwner }
          title
          url
          createdAt
          isDraft
          mergeStateStatus
          commits(last: 1) { nodes { commit { statusCheckRollup { state } } } }
          reviews(last: 10) { nodes { author { login } state } }
          reviewRequests(last: 10) { nodes { requestedReviewer { ... on User { login } } } }
        }
      }
    }
  }
}`

// reviewRequestsQuery finds the open PRs waiting for the user's review.
const reviewRequestsQuery = `{
  search(query: "type:pr state:open review-requested:%s", type: ISSUE, first: 100) {
    edges {
      node {
        ... on PullRequest {
          repository { nameWithOwner }
          author { login }
          createdAt
          url
          number
          title
        }
      }
    }
  }
}`

// Client executes the widget queries against the GitHub GraphQL API.
type Client struct {
	token      string
	login      string
	endpoint   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a GitHub client for the configured user.
func NewClient(cfg config.GitHubConfig, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:    cfg.Token,
		login:    cfg.Login,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchPendingPRs returns the raw pending-PRs search response.
func (c *Client) FetchPendingPRs(ctx context.Context) ([]byte, error) {
	return c.query(ctx, fmt.Sprintf(pendingPRsQuery, c.login), "pending PRs")
}

// FetchReviewRequests returns the raw review-requests search response.
func (c *Client) FetchReviewRequests(ctx context.Context) ([]byte, error) {
	return c.query(ctx, fmt.Sprintf(reviewRequestsQuery, c.login), "review requests")
}

func (c *Client) query(ctx context.Context, query, name string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encode %s query: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("github", "error").Inc()
		return nil, fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchRequests.WithLabelValues("github", "error").Inc()
		return nil, &domain.RemoteError{Endpoint: "github " + name, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("github", "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", name, err)
	}

	c.metrics.FetchRequests.WithLabelValues("github", "success").Inc()
	c.logger.Debug("github query fetched", "query", name, "bytes", len(body))
	return body, nil
}
