package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
)

var testNow = time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTicketFetcher serves canned issues per queue.
type fakeTicketFetcher struct {
	issues map[int][]domain.RawIssue
	errs   map[int]error
}

func (f *fakeTicketFetcher) FetchQueueIssues(_ context.Context, queueID int) ([]domain.RawIssue, error) {
	if err := f.errs[queueID]; err != nil {
		return nil, err
	}
	return f.issues[queueID], nil
}

func issue(key string, priority int) domain.RawIssue {
	return domain.RawIssue(fmt.Sprintf(
		`{"key": %q, "fields": {"summary": "s", "created": "2024-04-26T10:00:00.000+0000", "status": {"name": "Blocked"}, "priority": {"id": "%d"}}}`,
		key, priority))
}

func newTicketPipeline(f pipeline.TicketFetcher, queues []int) *pipeline.TicketPipeline {
	return pipeline.NewTicketPipeline(f, queues, "https://example.atlassian.net",
		testLogger(), observability.NewMetricsForTesting(), clockwork.NewFakeClockAt(testNow))
}

func TestTicketPipeline_SortsAcrossQueues(t *testing.T) {
	fetcher := &fakeTicketFetcher{issues: map[int][]domain.RawIssue{
		18: {issue("SUP-1", 3), issue("SUP-2", 1)},
		20: {issue("WF-1", 1), issue("WF-2", 2)},
	}}

	lines, err := newTicketPipeline(fetcher, []int{18, 20}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "4 :ticket: | size=12 color=#FF0000", lines[0])
	assert.Equal(t, "---", lines[1])

	// Priority 1 tickets first, fetch order preserved within the tie.
	assert.Contains(t, lines[2], "SUP-2")
	assert.Contains(t, lines[5], "WF-1")
	assert.Contains(t, lines[8], "WF-2")
	assert.Contains(t, lines[11], "SUP-1")
}

func TestTicketPipeline_EmptyQueues(t *testing.T) {
	fetcher := &fakeTicketFetcher{issues: map[int][]domain.RawIssue{18: nil}}

	lines, err := newTicketPipeline(fetcher, []int{18}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"0 :ticket: | size=12 color=#02A61E",
		"---",
		"No :ticket: to solve :tada:",
	}, lines)
}

func TestTicketPipeline_SkipsMalformedRecords(t *testing.T) {
	fetcher := &fakeTicketFetcher{issues: map[int][]domain.RawIssue{
		18: {
			issue("SUP-1", 2),
			domain.RawIssue(`{"fields": {}}`), // no key
			issue("SUP-3", 1),
		},
	}}

	lines, err := newTicketPipeline(fetcher, []int{18}).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "2 :ticket: | size=12 color=#FC8900", lines[0])
}

func TestTicketPipeline_FailureIsAtomic(t *testing.T) {
	// Queue 18 succeeds, queue 20 fails: the run must fail with no lines,
	// not report queue 18's tickets.
	fetcher := &fakeTicketFetcher{
		issues: map[int][]domain.RawIssue{18: {issue("SUP-1", 1)}},
		errs:   map[int]error{20: errors.New("boom")},
	}

	lines, err := newTicketPipeline(fetcher, []int{18, 20}).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, lines)
	assert.Contains(t, err.Error(), "boom")
}

func TestTicketPipeline_PageLimitSurfaces(t *testing.T) {
	fetcher := &fakeTicketFetcher{
		errs: map[int]error{18: fmt.Errorf("queue 18: %w after 5 pages", domain.ErrPageLimit)},
	}

	_, err := newTicketPipeline(fetcher, []int{18}).Run(context.Background())

	require.ErrorIs(t, err, domain.ErrPageLimit)
}
