package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// PullRequest is the normalized view of an open pull request authored by
// the configured user, with its review and CI state.
type PullRequest struct {
	Repository       string
	Title            string
	URL              string
	Created          time.Time
	Draft            bool
	Blocked          bool
	CIState          string
	Approved         []string
	Pending          []string
	Commented        []string
	ChangesRequested []string
}

// ReviewRequest is an open pull request waiting for the configured user's
// review.
type ReviewRequest struct {
	Repository string
	Title      string
	URL        string
	Number     int
	Author     string
	Created    time.Time
}

type graphQLError struct {
	Message string `json:"message"`
}

type pendingPRRecord struct {
	Node struct {
		Repository struct {
			NameWithOwner string `json:"nameWithOwner"`
		} `json:"repository"`
		Title            string `json:"title"`
		URL              string `json:"url"`
		CreatedAt        string `json:"createdAt"`
		IsDraft          bool   `json:"isDraft"`
		MergeStateStatus string `json:"mergeStateStatus"`
		Commits          struct {
			Nodes []struct {
				Commit struct {
					StatusCheckRollup *struct {
						State string `json:"state"`
					} `json:"statusCheckRollup"`
				} `json:"commit"`
			} `json:"nodes"`
		} `json:"commits"`
		Reviews struct {
			Nodes []struct {
				Author struct {
					Login string `json:"login"`
				} `json:"author"`
				State string `json:"state"`
			} `json:"nodes"`
		} `json:"reviews"`
		ReviewRequests struct {
			Nodes []struct {
				RequestedReviewer *struct {
					Login string `json:"login"`
				} `json:"requestedReviewer"`
			} `json:"nodes"`
		} `json:"reviewRequests"`
	} `json:"node"`
}

// ParsePendingPRs decodes a pending-PRs GraphQL response into normalized
// pull requests in search order. Reviewer classification: a login with an
// outstanding review request counts as pending even if an older review of
// theirs was an approval; logins are deduplicated within each state. The
// CI state comes from the status rollup of the last commit, when present.
// Records without a URL or a parseable createdAt are malformed and
// dropped; the second return value counts them.
func ParsePendingPRs(payload []byte) ([]PullRequest, int, error) {
	var rec struct {
		Data struct {
			Search struct {
				Edges []pendingPRRecord `json:"edges"`
			} `json:"search"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, 0, fmt.Errorf("decode pending PRs: %w", err)
	}
	if len(rec.Errors) > 0 {
		return nil, 0, fmt.Errorf("pending PRs query: %s", rec.Errors[0].Message)
	}

	prs := make([]PullRequest, 0, len(rec.Data.Search.Edges))
	skipped := 0
	for _, e := range rec.Data.Search.Edges {
		n := e.Node
		if n.URL == "" {
			skipped++
			continue
		}
		created, err := time.Parse(time.RFC3339, n.CreatedAt)
		if err != nil {
			skipped++
			continue
		}

		pr := PullRequest{
			Repository: n.Repository.NameWithOwner,
			Title:      n.Title,
			URL:        n.URL,
			Created:    created,
			Draft:      n.IsDraft,
			Blocked:    n.MergeStateStatus == "BLOCKED",
		}
		if nodes := n.Commits.Nodes; len(nodes) > 0 {
			if rollup := nodes[len(nodes)-1].Commit.StatusCheckRollup; rollup != nil {
				pr.CIState = rollup.State
			}
		}
		for _, r := range n.ReviewRequests.Nodes {
			if r.RequestedReviewer != nil && r.RequestedReviewer.Login != "" {
				pr.Pending = append(pr.Pending, r.RequestedReviewer.Login)
			}
		}
		for _, r := range n.Reviews.Nodes {
			login := r.Author.Login
			switch r.State {
			case "APPROVED":
				if !slices.Contains(pr.Pending, login) && !slices.Contains(pr.Approved, login) {
					pr.Approved = append(pr.Approved, login)
				}
			case "COMMENTED":
				if !slices.Contains(pr.Commented, login) {
					pr.Commented = append(pr.Commented, login)
				}
			case "CHANGES_REQUESTED":
				if !slices.Contains(pr.ChangesRequested, login) {
					pr.ChangesRequested = append(pr.ChangesRequested, login)
				}
			}
		}
		prs = append(prs, pr)
	}
	return prs, skipped, nil
}

type reviewRequestRecord struct {
	Node struct {
		Repository struct {
			NameWithOwner string `json:"nameWithOwner"`
		} `json:"repository"`
		Author struct {
			Login string `json:"login"`
		} `json:"author"`
		CreatedAt string `json:"createdAt"`
		URL       string `json:"url"`
		Number    int    `json:"number"`
		Title     string `json:"title"`
	} `json:"node"`
}

// ParseReviewRequests decodes a review-requests GraphQL response in search
// order, with the same malformed-record policy as [ParsePendingPRs].
func ParseReviewRequests(payload []byte) ([]ReviewRequest, int, error) {
	var rec struct {
		Data struct {
			Search struct {
				Edges []reviewRequestRecord `json:"edges"`
			} `json:"search"`
		} `json:"data"`
		Errors []graphQLError `json:"errors"`
	}
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, 0, fmt.Errorf("decode review requests: %w", err)
	}
	if len(rec.Errors) > 0 {
		return nil, 0, fmt.Errorf("review requests query: %s", rec.Errors[0].Message)
	}

	reqs := make([]ReviewRequest, 0, len(rec.Data.Search.Edges))
	skipped := 0
	for _, e := range rec.Data.Search.Edges {
		n := e.Node
		if n.URL == "" {
			skipped++
			continue
		}
		created, err := time.Parse(time.RFC3339, n.CreatedAt)
		if err != nil {
			skipped++
			continue
		}
		reqs = append(reqs, ReviewRequest{
			Repository: n.Repository.NameWithOwner,
			Title:      n.Title,
			URL:        n.URL,
			Number:     n.Number,
			Author:     n.Author.Login,
			Created:    created,
		})
	}
	return reqs, skipped, nil
}

// PR count gradient endpoints: the summary fades from amber toward red as
// the count approaches ten. Zero keeps its own green.
const (
	prZeroColor                  = "#00a357"
	prStartR, prStartG, prStartB = 255, 196, 0
	prEndR, prEndG, prEndB       = 229, 83, 83

	prGradientCap float64 = 10
)

// PRCountColor returns the summary color for a PR count: green at zero,
// then a linear blend from amber to red saturating at ten.
func PRCountColor(count int) string {
	if count == 0 {
		return prZeroColor
	}
	p := float64(count)
	if p > prGradientCap {
		p = prGradientCap
	}
	p /= prGradientCap

	r := prStartR + p*(prEndR-prStartR)
	g := prStartG + p*(prEndG-prStartG)
	b := prStartB + p*(prEndB-prStartB)
	return fmt.Sprintf("#%02x%02x%02x", int(r), int(g), int(b))
}

// ciIcons maps commit status rollup states to glyphs. Absent or unknown
// states render no glyph at all.
var ciIcons = map[string]string{
	"SUCCESS": ":white_check_mark:",
	"FAILURE": ":x:",
	"PENDING": ":hourglass:",
}

// CIIcon returns the glyph for a CI rollup state, or "" for unknown or
// absent states.
func CIIcon(state string) string {
	return ciIcons[state]
}

// NeedsAttention reports whether any PR has requested changes or a failing
// CI rollup.
func NeedsAttention(prs []PullRequest) bool {
	for _, pr := range prs {
		if len(pr.ChangesRequested) > 0 || pr.CIState == "FAILURE" {
			return true
		}
	}
	return false
}

// CIRunning reports whether any PR has a CI rollup still in flight.
func CIRunning(prs []PullRequest) bool {
	for _, pr := range prs {
		if pr.CIState == "PENDING" {
			return true
		}
	}
	return false
}
