package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
)

// fakeWeatherFetcher serves canned payloads per endpoint.
type fakeWeatherFetcher struct {
	current, forecast, hourly []byte
	currentErr                error
	forecastErr               error
	hourlyErr                 error
}

func (f *fakeWeatherFetcher) FetchCurrent(context.Context) ([]byte, error) {
	return f.current, f.currentErr
}

func (f *fakeWeatherFetcher) FetchForecast(context.Context) ([]byte, error) {
	return f.forecast, f.forecastErr
}

func (f *fakeWeatherFetcher) FetchHourly(context.Context) ([]byte, error) {
	return f.hourly, f.hourlyErr
}

func entry(at time.Time, temp float64) string {
	return fmt.Sprintf(`{"dt": %d, "main": {"temp": %g}, "weather": [{"icon": "01d", "description": "clear sky"}]}`, at.Unix(), temp)
}

func happyFetcher() *fakeWeatherFetcher {
	noonToday := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	return &fakeWeatherFetcher{
		current: []byte(`{
			"main": {"temp": 21.4, "feels_like": 20.0, "humidity": 60},
			"weather": [{"icon": "02d", "description": "few clouds"}],
			"wind": {"speed": 3},
			"visibility": 10000
		}`),
		forecast: []byte(fmt.Sprintf(`{"list": [%s, %s]}`,
			entry(noonToday.Add(24*time.Hour), 18),
			entry(noonToday.Add(48*time.Hour), 16))),
		hourly: []byte(fmt.Sprintf(`{"list": [%s, %s]}`,
			entry(noonToday.Add(2*time.Hour), 22),
			entry(noonToday.Add(26*time.Hour), 17))), // tomorrow, filtered out
	}
}

func newWeatherPipeline(f pipeline.WeatherFetcher) *pipeline.WeatherPipeline {
	return pipeline.NewWeatherPipeline(f, "Barcelona",
		testLogger(), observability.NewMetricsForTesting(), clockwork.NewFakeClockAt(testNow))
}

func TestWeatherPipeline_RendersAllSections(t *testing.T) {
	lines, err := newWeatherPipeline(happyFetcher()).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "⛅ 21°C | size=14", lines[0])
	assert.Contains(t, lines, "🕐 Today by hour:")
	assert.Contains(t, lines, "☀️ 14:00: 22°C - Clear sky | size=12")
	assert.NotContains(t, lines, "☀️ 14:00: 17°C - Clear sky | size=12")
	assert.Contains(t, lines, "📅 5-Day Forecast:")
	assert.Contains(t, lines, "☀️ Sat: 18°C - Clear sky | size=12")
	assert.Contains(t, lines, "☀️ Sun: 16°C - Clear sky | size=12")
	assert.Equal(t, "📍 Barcelona", lines[len(lines)-1])
}

func TestWeatherPipeline_FailureIsAtomic(t *testing.T) {
	// The forecast fetch fails while current and hourly succeed: the run
	// must produce the error and nothing else.
	fetcher := happyFetcher()
	fetcher.forecastErr = errors.New("boom")

	lines, err := newWeatherPipeline(fetcher).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, lines)
	assert.Contains(t, err.Error(), "boom")
}

func TestWeatherPipeline_HourlyFailureFailsRun(t *testing.T) {
	fetcher := happyFetcher()
	fetcher.hourlyErr = errors.New("pro tier required")

	lines, err := newWeatherPipeline(fetcher).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, lines)
}

func TestWeatherPipeline_BadCurrentPayload(t *testing.T) {
	fetcher := happyFetcher()
	fetcher.current = []byte(`{broken`)

	lines, err := newWeatherPipeline(fetcher).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, lines)
}
