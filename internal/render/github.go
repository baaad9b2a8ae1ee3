package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
)

// PullRequestReport renders the pending-PRs widget: a count summary with
// the gradient color plus attention markers, then one block per PR with
// its review states. The zero case renders its own celebratory line.
func PullRequestReport(prs []domain.PullRequest, now time.Time) []string {
	summary := fmt.Sprintf("#%d", len(prs))
	if domain.NeedsAttention(prs) {
		summary += " ⚠️"
	}
	if domain.CIRunning(prs) {
		summary += " ⏳"
	}

	lines := []string{
		fmt.Sprintf("%s | color=%s", summary, domain.PRCountColor(len(prs))),
		separator,
	}
	if len(prs) == 0 {
		return append(lines, "No pending PRs :tada:")
	}

	for _, pr := range prs {
		prefix := ""
		if pr.Draft {
			prefix = ":construction: "
		}
		if icon := domain.CIIcon(pr.CIState); icon != "" {
			prefix += icon + " "
		}
		suffix := ""
		if pr.Blocked {
			suffix = " :lock:"
		}

		lines = append(lines, fmt.Sprintf("%s%s - %s (%s)%s | color=#586069 href=%s size=16",
			prefix, pr.Repository, pr.Title, domain.RelativeAge(pr.Created, now), suffix, pr.URL))
		if states := reviewStates(pr); states != "" {
			lines = append(lines, states+" | color=#586069 size=12")
		}
		lines = append(lines, separator)
	}
	return lines
}

// reviewStates renders the per-state reviewer listing, omitting empty
// states entirely so a PR with no reviews gets no subtitle line.
func reviewStates(pr domain.PullRequest) string {
	var parts []string
	if len(pr.Approved) > 0 {
		parts = append(parts, ":white_check_mark: "+strings.Join(pr.Approved, ", "))
	}
	if len(pr.ChangesRequested) > 0 {
		parts = append(parts, ":warning: "+strings.Join(pr.ChangesRequested, ", "))
	}
	if len(pr.Pending) > 0 {
		parts = append(parts, ":red_circle: "+strings.Join(pr.Pending, ", "))
	}
	if len(pr.Commented) > 0 {
		parts = append(parts, ":pencil: "+strings.Join(pr.Commented, ", "))
	}
	return strings.Join(parts, " ")
}

// ReviewRequestReport renders the review-requests widget: the same count
// gradient, then one block per PR awaiting review.
func ReviewRequestReport(reqs []domain.ReviewRequest, now time.Time) []string {
	lines := []string{
		fmt.Sprintf("#%d | color=%s", len(reqs), domain.PRCountColor(len(reqs))),
		separator,
	}
	if len(reqs) == 0 {
		return append(lines, "No reviews requested :tada:")
	}

	for _, r := range reqs {
		lines = append(lines,
			fmt.Sprintf("%s - %s | color=#586069 href=%s size=16", r.Repository, r.Title, r.URL),
			fmt.Sprintf("#%d opened %s by @%s | color=#586069 size=12",
				r.Number, domain.RelativeAge(r.Created, now), r.Author),
			separator,
		)
	}
	return lines
}

// PullRequestFailure renders the replacement report for a failed
// pending-PRs run.
func PullRequestFailure(err error) []string {
	return []string{"GitHub pending PRs | color=red", separator, fmt.Sprintf("%v", err)}
}

// ReviewRequestFailure renders the replacement report for a failed
// review-requests run.
func ReviewRequestFailure(err error) []string {
	return []string{"GitHub review requests | color=red", separator, fmt.Sprintf("%v", err)}
}
