// Package render turns derived widget data into the ordered line sequence
// consumed by the menu-bar host. Every function is pure: same input, same
// lines, no I/O. Failure renderers produce a complete replacement report,
// never an addendum to a partial success.
package render

import (
	"fmt"
	"time"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
)

// separator ends each block in the plugin text format.
const separator = "---"

// TicketReport renders the queue summary and one block per ticket. The
// caller is expected to pass tickets already sorted for display. The
// zero-ticket case renders its own celebratory line instead of an empty
// listing.
func TicketReport(tickets []domain.Ticket, now time.Time) []string {
	severity := domain.SeverityFor(len(tickets))
	lines := []string{
		fmt.Sprintf("%d :ticket: | size=12 color=%s", len(tickets), severity.Color()),
		separator,
	}

	if len(tickets) == 0 {
		return append(lines, "No :ticket: to solve :tada:")
	}

	for _, t := range tickets {
		assigned := "Unassigned"
		if t.Assignee != "" {
			assigned = "Assigned to " + t.Assignee
		}
		reporter := t.Reporter
		if reporter == "" {
			reporter = "unknown"
		}

		lines = append(lines,
			fmt.Sprintf("%s %s - %s | href=%s size=16", domain.PriorityIcon(t.Priority), t.Key, t.Summary, t.URL),
			fmt.Sprintf("%s. %s, reported by %s %s | color=%s size=12",
				t.Status, assigned, reporter, domain.RelativeAge(t.Created, now), domain.StatusColor(t.Status)),
			separator,
		)
	}
	return lines
}

// TicketFailure renders the single-line error report for the ticket
// widget.
func TicketFailure(err error) []string {
	return []string{fmt.Sprintf(":x: Error: %v", err)}
}
