package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
)

// Client pages through Jira Service Desk queue endpoints.
type Client struct {
	baseURL       string
	authorization string
	serviceDeskID int
	maxPages      int
	httpClient    *http.Client
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates a service-desk client. maxPages bounds the pagination
// loop per queue; timeout applies per request.
func NewClient(cfg config.JiraConfig, timeout time.Duration, maxPages int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))
	return &Client{
		baseURL:       cfg.BaseURL,
		authorization: "Basic " + credentials,
		serviceDeskID: cfg.ServiceDeskID,
		maxPages:      maxPages,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// queuePage is one bounded response from the queue endpoint.
type queuePage struct {
	Values     []domain.RawIssue `json:"values"`
	IsLastPage bool              `json:"isLastPage"`
	Links      struct {
		Next string `json:"next"`
	} `json:"_links"`
}

// FetchQueueIssues returns every issue in the queue, in server order.
// It follows the server-supplied next-page locator verbatim until the
// server marks a page as last (or omits the locator), and fails the whole
// fetch on the first transport or status error — there is no
// partial-success mode. A server that never reports a last page trips the
// page bound and returns an error wrapping [domain.ErrPageLimit].
func (c *Client) FetchQueueIssues(ctx context.Context, queueID int) ([]domain.RawIssue, error) {
	url := fmt.Sprintf("%s/rest/servicedeskapi/servicedesk/%d/queue/%d/issue", c.baseURL, c.serviceDeskID, queueID)

	var issues []domain.RawIssue
	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, fmt.Errorf("queue %d: %w after %d pages", queueID, domain.ErrPageLimit, c.maxPages)
		}

		p, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("queue %d: %w", queueID, err)
		}
		issues = append(issues, p.Values...)

		if p.IsLastPage || p.Links.Next == "" {
			break
		}
		url = p.Links.Next
	}

	c.logger.Debug("queue fetched", "queue", queueID, "issues", len(issues))
	return issues, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) (queuePage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return queuePage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("jira", "error").Inc()
		return queuePage{}, fmt.Errorf("queue page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.FetchRequests.WithLabelValues("jira", "error").Inc()
		return queuePage{}, &domain.RemoteError{Endpoint: "jira queue", Status: resp.StatusCode}
	}

	var p queuePage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		c.metrics.FetchRequests.WithLabelValues("jira", "error").Inc()
		return queuePage{}, fmt.Errorf("decode queue page: %w", err)
	}

	c.metrics.FetchRequests.WithLabelValues("jira", "success").Inc()
	c.metrics.PagesFetched.Inc()
	return p, nil
}
