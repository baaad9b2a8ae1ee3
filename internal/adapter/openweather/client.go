package openweather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/domain"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
)

// Client fetches the three OpenWeatherMap endpoints the weather widget
// needs: current conditions, the 5-day/3-hour forecast, and the hourly
// forecast. The hourly endpoint lives on the pro host; the others on the
// free host.
type Client struct {
	apiKey        string
	city          string
	baseURL       string
	hourlyBaseURL string
	httpClient    *http.Client
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(cfg config.WeatherConfig, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:        cfg.APIKey,
		city:          cfg.City,
		baseURL:       "https://api.openweathermap.org",
		hourlyBaseURL: "https://pro.openweathermap.org",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchCurrent returns the raw current-conditions payload.
func (c *Client) FetchCurrent(ctx context.Context) ([]byte, error) {
	return c.doGet(ctx, c.baseURL+"/data/2.5/weather", "current")
}

// FetchForecast returns the raw 5-day/3-hour forecast payload.
func (c *Client) FetchForecast(ctx context.Context) ([]byte, error) {
	return c.doGet(ctx, c.baseURL+"/data/2.5/forecast", "forecast")
}

// FetchHourly returns the raw hourly forecast payload.
func (c *Client) FetchHourly(ctx context.Context) ([]byte, error) {
	return c.doGet(ctx, c.hourlyBaseURL+"/data/2.5/forecast/hourly", "hourly")
}

func (c *Client) doGet(ctx context.Context, endpoint, name string) ([]byte, error) {
	params := url.Values{
		"q":     {c.city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("openweather", "error").Inc()
		return nil, fmt.Errorf("%s weather request: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchRequests.WithLabelValues("openweather", "error").Inc()
		return nil, &domain.RemoteError{Endpoint: name + " weather", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("openweather", "error").Inc()
		return nil, fmt.Errorf("read %s weather response: %w", name, err)
	}

	c.metrics.FetchRequests.WithLabelValues("openweather", "success").Inc()
	c.logger.Debug("weather endpoint fetched", "endpoint", name, "bytes", len(body))
	return body, nil
}
