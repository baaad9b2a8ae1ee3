// Package pipeline orchestrates the widget runs: fetch the remote
// resources concurrently, normalize the raw records, derive the display
// attributes, and render the line report. A run returns either the full
// line sequence or an error — never both, so a failure can fully replace
// the success-path output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

// TicketFetcher pages through one queue and returns its raw issues in
// server order.
type TicketFetcher interface {
	FetchQueueIssues(ctx context.Context, queueID int) ([]domain.RawIssue, error)
}

// TicketPipeline produces the ticket-queue widget report.
type TicketPipeline struct {
	fetcher TicketFetcher
	queues  []int
	baseURL string
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewTicketPipeline creates a ticket pipeline over the given queues.
func NewTicketPipeline(fetcher TicketFetcher, queues []int, baseURL string, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *TicketPipeline {
	return &TicketPipeline{
		fetcher: fetcher,
		queues:  queues,
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run fetches every configured queue concurrently, normalizes and sorts
// the tickets, and renders the report. Queues are independent resources
// but failure is all-or-nothing: the first queue error cancels the rest
// and fails the run. Malformed issue records are skipped with a warning;
// they never abort the run.
func (p *TicketPipeline) Run(ctx context.Context) ([]string, error) {
	start := p.clock.Now()

	results := make([][]domain.RawIssue, len(p.queues))
	g, gctx := errgroup.WithContext(ctx)
	for i, queueID := range p.queues {
		g.Go(func() error {
			raw, err := p.fetcher.FetchQueueIssues(gctx, queueID)
			if err != nil {
				return err
			}
			results[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.metrics.ReportsRendered.WithLabelValues("tickets", "failure").Inc()
		return nil, fmt.Errorf("fetch queues: %w", err)
	}

	var tickets []domain.Ticket
	for i, queueID := range p.queues {
		for _, raw := range results[i] {
			t, err := domain.NormalizeIssue(raw, p.baseURL)
			if err != nil {
				if errors.Is(err, domain.ErrMalformedRecord) {
					p.logger.Warn("skipping malformed issue", "queue", queueID, "error", err)
					p.metrics.MalformedRecords.Inc()
					continue
				}
				p.metrics.ReportsRendered.WithLabelValues("tickets", "failure").Inc()
				return nil, err
			}
			tickets = append(tickets, t)
		}
	}
	p.metrics.ItemsNormalized.Add(float64(len(tickets)))

	lines := render.TicketReport(domain.SortByPriority(tickets), p.clock.Now())

	p.metrics.RunDuration.WithLabelValues("tickets").Observe(p.clock.Since(start).Seconds())
	p.metrics.ReportsRendered.WithLabelValues("tickets", "success").Inc()
	p.logger.Info("ticket report rendered", "queues", len(p.queues), "tickets", len(tickets))
	return lines, nil
}
