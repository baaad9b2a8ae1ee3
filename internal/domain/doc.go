// Package domain models the normalized records and display derivations
// shared by the ticket-queue and weather widgets.
//
// # Line format
//
// The widgets emit the xbar/BitBar plugin text format: one line per menu
// entry, "---" as a block separator, and per-line attributes after a "|"
// (size, color, href, refresh). The first line is the menu-bar summary;
// everything after the first separator is the dropdown. The glyph and hex
// color vocabulary in this package is part of that contract and must not
// drift, or existing plugin setups render differently.
//
// # Ticket data
//
// Issues come from the Jira Service Desk queue API. Priority IDs are
// strings "1" (highest) through "5" (lowest) and map to arrow glyphs;
// workflow status names map to detail-line colors. Both tables have an
// explicit default so unknown codes degrade instead of failing: unknown
// priorities render :grey_question:, unknown statuses render red.
//
// The summary count is classified into three severity buckets driving the
// menu-bar color:
//
//	0 tickets    ok        #02A61E (green)
//	1-3 tickets  warn      #FC8900 (orange)
//	4+ tickets   critical  #FF0000 (red)
//
// # Weather data
//
// Forecast samples come from the OpenWeatherMap 5-day/3-hour and hourly
// endpoints. Timestamps are unix seconds; temperatures are metric. Icon
// codes ("01d".."50n") map to emoji with a single fallback glyph.
//
// The 5-day listing shows one representative sample per calendar day: the
// 12:00 local sample when present, otherwise the first sample between
// 11:00 and 14:00. Days with no sample in that window are omitted rather
// than padded.
//
// # Pull request data
//
// Pull requests come from two GitHub GraphQL search queries: the user's
// open PRs, and the open PRs requesting their review. The PR count colors
// the summary on a gradient from amber to red, saturating at ten; zero
// keeps its own green. Reviewers are classified per PR into approved,
// changes-requested, commented, and pending; an outstanding review request
// overrides that reviewer's earlier approval. The CI glyph reflects the
// status rollup of the PR's last commit.
package domain
