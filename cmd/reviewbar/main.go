// Command reviewbar prints the review requests widget once and exits:
// the open PRs waiting for the user's review.
//
// Usage:
//
//	reviewbar [-config github-config.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/xa-bi/bitbar-widgets/internal/adapter/github"
	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

func main() {
	configFile := flag.String("config", "", "path to github-config.json (overrides environment)")
	flag.Parse()

	cfg, err := config.Load(config.Options{GitHubFile: *configFile})
	if err != nil {
		fail(err)
	}
	if err := cfg.GitHub.Validate(); err != nil {
		fail(err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := github.NewClient(cfg.GitHub, cfg.RequestTimeout, metrics, logger)
	p := pipeline.NewReviewRequestPipeline(client, logger, metrics, clockwork.NewRealClock())

	lines, err := p.Run(context.Background())
	if err != nil {
		logger.Error("review requests widget failed", "error", err)
		fail(err)
	}
	fmt.Println(strings.Join(lines, "\n"))
}

// fail prints the replacement error report on stdout and exits non-zero.
func fail(err error) {
	fmt.Println(strings.Join(render.ReviewRequestFailure(err), "\n"))
	os.Exit(1)
}
