package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// jiraTimeLayout is the timestamp format used by Jira Cloud REST APIs,
// e.g. "2024-04-26T15:10:00.000+0200".
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// RawIssue is an issue record exactly as returned by the service-desk API.
type RawIssue = json.RawMessage

// Ticket is the normalized view of a service-desk issue. Optional fields
// (Assignee, Reporter) are empty strings when absent in the source record.
type Ticket struct {
	Key      string
	Summary  string
	Status   string
	Priority int
	Assignee string
	Reporter string
	Created  time.Time
	URL      string
}

// rawIssue mirrors the subset of the Jira issue payload the widget needs.
type rawIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Created string `json:"created"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
		Priority struct {
			ID string `json:"id"`
		} `json:"priority"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
		Reporter *struct {
			DisplayName string `json:"displayName"`
		} `json:"reporter"`
	} `json:"fields"`
}

// NormalizeIssue maps a raw issue record to a Ticket. A record without a
// key or a parseable created timestamp is malformed; the error wraps
// [ErrMalformedRecord] so callers can skip it. Unknown priority values are
// kept as-is and resolve to the default icon at lookup time.
func NormalizeIssue(raw RawIssue, baseURL string) (Ticket, error) {
	var rec rawIssue
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Ticket{}, fmt.Errorf("decode issue: %v: %w", err, ErrMalformedRecord)
	}
	if rec.Key == "" {
		return Ticket{}, fmt.Errorf("issue without key: %w", ErrMalformedRecord)
	}

	created, err := parseJiraTime(rec.Fields.Created)
	if err != nil {
		return Ticket{}, fmt.Errorf("issue %s: bad created timestamp %q: %w", rec.Key, rec.Fields.Created, ErrMalformedRecord)
	}

	// Priority IDs arrive as strings ("1".."5"); anything else maps to the
	// default icon rather than failing the record.
	priority, _ := strconv.Atoi(rec.Fields.Priority.ID)

	t := Ticket{
		Key:      rec.Key,
		Summary:  rec.Fields.Summary,
		Status:   rec.Fields.Status.Name,
		Priority: priority,
		Created:  created,
		URL:      strings.TrimSuffix(baseURL, "/") + "/browse/" + rec.Key,
	}
	if rec.Fields.Assignee != nil {
		t.Assignee = rec.Fields.Assignee.DisplayName
	}
	if rec.Fields.Reporter != nil {
		t.Reporter = rec.Fields.Reporter.DisplayName
	}
	return t, nil
}

func parseJiraTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(jiraTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// SortByPriority returns the tickets ordered by ascending priority
// (1 = most urgent first). The sort is stable: tickets with equal priority
// keep their fetch order.
func SortByPriority(tickets []Ticket) []Ticket {
	sorted := make([]Ticket, len(tickets))
	copy(sorted, tickets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// Severity classifies a ticket count for the summary line color.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarn     Severity = "warn"
	SeverityCritical Severity = "critical"
)

// SeverityFor buckets a non-negative count: 0 is ok, 1..3 warn, 4 and up
// critical.
func SeverityFor(count int) Severity {
	switch {
	case count == 0:
		return SeverityOK
	case count <= 3:
		return SeverityWarn
	default:
		return SeverityCritical
	}
}

// severityColors drives the summary line color per bucket. The hex values
// are part of the rendering contract with the menu-bar host.
var severityColors = map[Severity]string{
	SeverityOK:       "#02A61E",
	SeverityWarn:     "#FC8900",
	SeverityCritical: "#FF0000",
}

// Color returns the hex color for the severity bucket.
func (s Severity) Color() string {
	return severityColors[s]
}

// priorityIcons maps Jira priority IDs to the glyphs the menu-bar host
// renders. Codes outside 1..5 fall back to defaultPriorityIcon.
var priorityIcons = map[int]string{
	1: ":arrow_double_up:",
	2: ":arrow_up_small:",
	3: ":arrow_up_down:",
	4: ":arrow_down_small:",
	5: ":arrow_double_down:",
}

const defaultPriorityIcon = ":grey_question:"

// PriorityIcon returns the glyph for a priority ID, or the default glyph
// for unknown codes.
func PriorityIcon(priority int) string {
	if icon, ok := priorityIcons[priority]; ok {
		return icon
	}
	return defaultPriorityIcon
}

// statusColors maps workflow status names to detail-line colors. Statuses
// not in the table render red so they stand out as unexpected.
var statusColors = map[string]string{
	"Solution in Development":   "blue",
	"Investigation in Progress": "blue",
	"Waiting for Investigation": "gray",
	"Blocked":                   "blue",
	"Solution Development Done": "green",
	"Pending response":          "green",
	"Scheduled to Development":  "green",
}

const defaultStatusColor = "red"

// StatusColor returns the detail-line color for a workflow status.
func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return defaultStatusColor
}

// RelativeAge renders a coarse past-tense age label using the largest unit
// whose floored magnitude is at least 1. Future timestamps clamp to
// "just now"; source timestamps are never ahead of the clock in practice,
// but a skewed server must not crash the report.
func RelativeAge(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}

	switch {
	case d < time.Minute:
		return pluralAge(int(d/time.Second), "second")
	case d < time.Hour:
		return pluralAge(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return pluralAge(int(d/time.Hour), "hour")
	default:
		return pluralAge(int(d/(24*time.Hour)), "day")
	}
}

func pluralAge(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
