// Command weatherbar prints the OpenWeatherMap widget once and exits:
// current conditions, today's hourly forecast, and the 5-day outlook.
//
// Usage:
//
//	weatherbar [-config openweathermap.conf.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/xa-bi/bitbar-widgets/internal/adapter/openweather"
	"github.com/xa-bi/bitbar-widgets/internal/config"
	"github.com/xa-bi/bitbar-widgets/internal/observability"
	"github.com/xa-bi/bitbar-widgets/internal/pipeline"
	"github.com/xa-bi/bitbar-widgets/internal/render"
)

func main() {
	configFile := flag.String("config", "", "path to openweathermap.conf.json (overrides environment)")
	flag.Parse()

	cfg, err := config.Load(config.Options{WeatherFile: *configFile})
	if err != nil {
		fail(err)
	}
	if err := cfg.Weather.Validate(); err != nil {
		fail(err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := openweather.NewClient(cfg.Weather, cfg.RequestTimeout, metrics, logger)
	p := pipeline.NewWeatherPipeline(client, cfg.Weather.Label, logger, metrics, clockwork.NewRealClock())

	lines, err := p.Run(context.Background())
	if err != nil {
		logger.Error("weather widget failed", "error", err)
		fail(err)
	}
	fmt.Println(strings.Join(lines, "\n"))
}

// fail prints the replacement error report on stdout and exits non-zero.
func fail(err error) {
	fmt.Println(strings.Join(render.WeatherFailure(err), "\n"))
	os.Exit(1)
}
