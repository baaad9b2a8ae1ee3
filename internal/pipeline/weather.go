package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

// WeatherFetcher fetches the three weather endpoints as raw payloads.
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context) ([]byte, error)
	FetchForecast(ctx context.Context) ([]byte, error)
	FetchHourly(ctx context.Context) ([]byte, error)
}

// WeatherPipeline produces the forecast widget report.
type WeatherPipeline struct {
	fetcher WeatherFetcher
	label   string
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewWeatherPipeline creates a weather pipeline. label is the location
// name shown in the report footer.
func NewWeatherPipeline(fetcher WeatherFetcher, label string, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *WeatherPipeline {
	return &WeatherPipeline{
		fetcher: fetcher,
		label:   label,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Run fetches current conditions, the 5-day forecast, and the hourly
// forecast concurrently, then derives the daily buckets and today's
// hourly listing. The three fetches join before any output is produced;
// if any of them fails, the whole run fails and no partial report exists.
func (p *WeatherPipeline) Run(ctx context.Context) ([]string, error) {
	start := p.clock.Now()

	var currentRaw, forecastRaw, hourlyRaw []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		currentRaw, err = p.fetcher.FetchCurrent(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		forecastRaw, err = p.fetcher.FetchForecast(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		hourlyRaw, err = p.fetcher.FetchHourly(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		p.metrics.ReportsRendered.WithLabelValues("weather", "failure").Inc()
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	current, err := domain.ParseConditions(currentRaw)
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("weather", "failure").Inc()
		return nil, err
	}
	forecast, err := p.parsePoints(forecastRaw, "forecast")
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("weather", "failure").Inc()
		return nil, err
	}
	hourly, err := p.parsePoints(hourlyRaw, "hourly")
	if err != nil {
		p.metrics.ReportsRendered.WithLabelValues("weather", "failure").Inc()
		return nil, err
	}
	p.metrics.ItemsNormalized.Add(float64(len(forecast) + len(hourly)))

	now := p.clock.Now()
	lines := render.WeatherReport(render.WeatherView{
		Current:  current,
		Daily:    domain.DailyBuckets(forecast, now.Location()),
		Hourly:   domain.HourlyToday(hourly, now),
		Label:    p.label,
		Location: now.Location(),
	})

	p.metrics.RunDuration.WithLabelValues("weather").Observe(p.clock.Since(start).Seconds())
	p.metrics.ReportsRendered.WithLabelValues("weather", "success").Inc()
	p.logger.Info("weather report rendered", "forecast_points", len(forecast), "hourly_points", len(hourly))
	return lines, nil
}

// parsePoints normalizes one forecast payload, logging entries dropped
// for missing timestamps.
func (p *WeatherPipeline) parsePoints(payload []byte, endpoint string) ([]domain.ForecastPoint, error) {
	points, skipped, err := domain.ParseForecastPoints(payload)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		p.logger.Warn("skipping malformed forecast entries", "endpoint", endpoint, "skipped", skipped)
		p.metrics.MalformedRecords.Add(float64(skipped))
	}
	return points, nil
}
