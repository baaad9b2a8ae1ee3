// Command widgetd serves the rendered widget reports over HTTP so thin
// curl-based menu-bar plugins can share one fetcher. It also exposes
// /healthz, /readyz, and Prometheus /metrics. Widgets whose config
// section is incomplete are simply not routed.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/xa-bi/bitbar-widgets/internal/adapter/github"
	httpadapter "github.com/xa-bi/bitbar-widgets/internal/adapter/http"
	"github.com/xa-bi/bitbar-widgets/internal/adapter/jira"
	"github.com/xa-bi/bitbar-widgets/internal/adapter/openweather"
	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

func main() {
	jiraFile := flag.String("jira-config", "", "path to jira-config.json")
	weatherFile := flag.String("weather-config", "", "path to openweathermap.conf.json")
	githubFile := flag.String("github-config", "", "path to github-config.json")
	flag.Parse()

	cfg, err := config.Load(config.Options{JiraFile: *jiraFile, WeatherFile: *weatherFile, GitHubFile: *githubFile})
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	var widgets httpadapter.Widgets
	if cfg.Jira.Enabled() {
		client := jira.NewClient(cfg.Jira, cfg.RequestTimeout, cfg.MaxPages, metrics, logger)
		widgets.Tickets = pipeline.NewTicketPipeline(client, cfg.Jira.Queues, cfg.Jira.BaseURL, logger, metrics, clock)
		logger.Info("ticket widget enabled", "queues", cfg.Jira.Queues)
	} else {
		logger.Info("ticket widget disabled", "reason", cfg.Jira.Validate())
	}
	if cfg.Weather.Enabled() {
		client := openweather.NewClient(cfg.Weather, cfg.RequestTimeout, metrics, logger)
		widgets.Weather = pipeline.NewWeatherPipeline(client, cfg.Weather.Label, logger, metrics, clock)
		logger.Info("weather widget enabled", "city", cfg.Weather.City)
	} else {
		logger.Info("weather widget disabled", "reason", cfg.Weather.Validate())
	}
	if cfg.GitHub.Enabled() {
		client := github.NewClient(cfg.GitHub, cfg.RequestTimeout, metrics, logger)
		widgets.PendingPRs = pipeline.NewPullRequestPipeline(client, logger, metrics, clock)
		widgets.ReviewRequests = pipeline.NewReviewRequestPipeline(client, logger, metrics, clock)
		logger.Info("github widgets enabled", "login", cfg.GitHub.Login)
	} else {
		logger.Info("github widgets disabled", "reason", cfg.GitHub.Validate())
	}

	if widgets == (httpadapter.Widgets{}) {
		logger.Error("no widget configured; set the Jira, OpenWeatherMap, or GitHub keys")
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, widgets, httpadapter.FailureRenderers{
		Tickets:        render.TicketFailure,
		Weather:        render.WeatherFailure,
		PendingPRs:     render.PullRequestFailure,
		ReviewRequests: render.ReviewRequestFailure,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
