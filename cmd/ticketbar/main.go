// Command ticketbar prints the service-desk queue widget once and exits.
// The menu-bar host (xbar/SwiftBar) invokes it on its refresh interval,
// which is also the retry cadence: nothing is retried inside one run.
//
// Usage:
//
//	ticketbar [-config jira-config.json]
//
// Configuration comes from the environment (JIRA_DOMAIN, JIRA_USER_EMAIL,
// JIRA_API_TOKEN, JIRA_QUEUES, ...) or from the JSON config file the
// original plugin shipped with.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/xa-bi/bitbar-widgets/internal/adapter/jira"
	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

func main() {
	configFile := flag.String("config", "", "path to jira-config.json (overrides environment)")
	flag.Parse()

	cfg, err := config.Load(config.Options{JiraFile: *configFile})
	if err != nil {
		fail(err)
	}
	if err := cfg.Jira.Validate(); err != nil {
		fail(err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := jira.NewClient(cfg.Jira, cfg.RequestTimeout, cfg.MaxPages, metrics, logger)
	p := pipeline.NewTicketPipeline(client, cfg.Jira.Queues, cfg.Jira.BaseURL, logger, metrics, clockwork.NewRealClock())

	lines, err := p.Run(context.Background())
	if err != nil {
		logger.Error("ticket widget failed", "error", err)
		fail(err)
	}
	fmt.Println(strings.Join(lines, "\n"))
}

// fail prints the replacement error report on stdout and exits non-zero.
// Config and fetch errors look the same to the menu-bar host.
func fail(err error) {
	fmt.Println(strings.Join(render.TicketFailure(err), "\n"))
	os.Exit(1)
}
