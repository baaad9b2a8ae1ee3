package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

// PullRequestFetcher fetches the pending-PRs search response.
type PullRequestFetcher interface {
	FetchPendingPRs(ctx context.Context) ([]byte, error)
}

// ReviewRequestFetcher fetches the review-requests search response.
type ReviewRequestFetcher interface {
	FetchReviewRequests(ctx context.Context) ([]byte, error)
}

// PullRequestPipeline produces the pending-PRs widget report.
type PullRequestPipeline struct {
	fetcher PullRequestFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewPullRequestPipeline creates a pending-PRs pipeline.
func NewPullRequestPipeline(fetcher PullRequestFetcher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *PullRequestPipeline {
	return &PullRequestPipeline{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run fetches the user's open PRs, normalizes the review and CI state, and
// renders the report. Malformed search records are skipped with a warning;
// a failed fetch or an API-level error fails the run with no output.
func (p *PullRequestPipeline) Run(ctx context.Context) ([]string, error) {
	start := p.clock.Now()

	raw, err := p.fetcher.FetchPendingPRs(ctx)
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("pending_prs", "failure").Inc()
		return nil, fmt.Errorf("fetch pending PRs: %w", err)
	}

	prs, skipped, err := domain.ParsePendingPRs(raw)
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("pending_prs", "failure").Inc()
		return nil, err
	}
	if skipped > 0 {
		p.logger.Warn("skipping malformed PR records", "skipped", skipped)
		p.metrics.MalformedRecords.Add(float64(skipped))
	}
	p.metrics.ItemsNormalized.Add(float64(len(prs)))

	lines := render.PullRequestReport(prs, p.clock.Now())

	p.metrics.RunDuration.WithLabelValues("pending_prs").Observe(p.clock.Since(start).Seconds())
	p.metrics.ReportsRendered.WithLabelValues("pending_prs", "success").Inc()
	p.logger.Info("pending PRs report rendered", "prs", len(prs))
	return lines, nil
}

// ReviewRequestPipeline produces the review-requests widget report.
type ReviewRequestPipeline struct {
	fetcher ReviewRequestFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewReviewRequestPipeline creates a review-requests pipeline.
func NewReviewRequestPipeline(fetcher ReviewRequestFetcher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *ReviewRequestPipeline {
	return &ReviewRequestPipeline{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run fetches the PRs waiting for the user's review and renders the
// report, with the same failure and skip policies as the pending-PRs run.
func (p *ReviewRequestPipeline) Run(ctx context.Context) ([]string, error) {
	start := p.clock.Now()

	raw, err := p.fetcher.FetchReviewRequests(ctx)
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("review_requests", "failure").Inc()
		return nil, fmt.Errorf("fetch review requests: %w", err)
	}

	reqs, skipped, err := domain.ParseReviewRequests(raw)
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("review_requests", "failure").Inc()
		return nil, err
	}
	if skipped > 0 {
		p.logger.Warn("skipping malformed review-request records", "skipped", skipped)
		p.metrics.MalformedRecords.Add(float64(skipped))
	}
	p.metrics.ItemsNormalized.Add(float64(len(reqs)))

	lines := render.ReviewRequestReport(reqs, p.clock.Now())

	p.metrics.RunDuration.WithLabelValues("review_requests").Observe(p.clock.Since(start).Seconds())
	p.metrics.ReportsRendered.WithLabelValues("review_requests", "success").Inc()
	p.logger.Info("review requests report rendered", "requests", len(reqs))
	return lines, nil
}
