package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
)

func TestPullRequestReport_Empty(t *testing.T) {
	lines := PullRequestReport(nil, renderNow)

	assert.Equal(t, []string{
		"#0 | color=#00a357",
		"---",
		"No pending PRs :tada:",
	}, lines)
}

func TestPullRequestReport_Blocks(t *testing.T) {
	prs := []domain.PullRequest{
		{
			Repository: "xa-bi/widgets",
			Title:      "Add pagination",
			URL:        "https://github.com/xa-bi/widgets/pull/7",
			Created:    renderNow.Add(-2 * time.Hour),
			Draft:      true,
			Blocked:    true,
			CIState:    "FAILURE",
			Approved:   []string{"ada"},
			Pending:    []string{"margaret", "linus"},
		},
		{
			Repository: "xa-bi/infra",
			Title:      "Bump runtime",
			URL:        "https://github.com/xa-bi/infra/pull/3",
			Created:    renderNow.Add(-3 * 24 * time.Hour),
			CIState:    "PENDING",
		},
	}

	lines := PullRequestReport(prs, renderNow)

	assert.Equal(t, []string{
		"#2 ⚠️ ⏳ | color=#f9ad10",
		"---",
		":construction: :x: xa-bi/widgets - Add pagination (2 hours ago) :lock: | color=#586069 href=https://github.com/xa-bi/widgets/pull/7 size=16",
		":white_check_mark: ada :red_circle: margaret, linus | color=#586069 size=12",
		"---",
		":hourglass: xa-bi/infra - Bump runtime (3 days ago) | color=#586069 href=https://github.com/xa-bi/infra/pull/3 size=16",
		"---",
	}, lines)
}

func TestPullRequestReport_SummaryMarkers(t *testing.T) {
	calm := []domain.PullRequest{{URL: "u", Created: renderNow, CIState: "SUCCESS"}}
	lines := PullRequestReport(calm, renderNow)
	assert.Equal(t, "#1 | color=#fcb808", lines[0])

	attention := []domain.PullRequest{{URL: "u", Created: renderNow, ChangesRequested: []string{"ada"}}}
	lines = PullRequestReport(attention, renderNow)
	assert.Equal(t, "#1 ⚠️ | color=#fcb808", lines[0])
}

func TestReviewRequestReport_Empty(t *testing.T) {
	lines := ReviewRequestReport(nil, renderNow)

	assert.Equal(t, []string{
		"#0 | color=#00a357",
		"---",
		"No reviews requested :tada:",
	}, lines)
}

func TestReviewRequestReport_Blocks(t *testing.T) {
	reqs := []domain.ReviewRequest{
		{
			Repository: "xa-bi/widgets",
			Title:      "Fix flaky test",
			URL:        "https://github.com/xa-bi/widgets/pull/8",
			Number:     8,
			Author:     "grace",
			Created:    renderNow.Add(-30 * time.Minute),
		},
	}

	lines := ReviewRequestReport(reqs, renderNow)

	assert.Equal(t, []string{
		"#1 | color=#fcb808",
		"---",
		"xa-bi/widgets - Fix flaky test | color=#586069 href=https://github.com/xa-bi/widgets/pull/8 size=16",
		"#8 opened 30 minutes ago by @grace | color=#586069 size=12",
		"---",
	}, lines)
}

func TestPullRequestFailure(t *testing.T) {
	lines := PullRequestFailure(assert.AnError)

	assert.Equal(t, []string{
		"GitHub pending PRs | color=red",
		"---",
		assert.AnError.Error(),
	}, lines)
}

func TestReviewRequestFailure(t *testing.T) {
	lines := ReviewRequestFailure(assert.AnError)

	assert.Equal(t, []string{
		"GitHub review requests | color=red",
		"---",
		assert.AnError.Error(),
	}, lines)
}
