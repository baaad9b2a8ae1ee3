package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
)

func testConditions() domain.Conditions {
	return domain.Conditions{
		TempC:       21.4,
		FeelsLikeC:  19.6,
		Icon:        "02d",
		Description: "few clouds",
		WindSpeed:   3.5,
		Humidity:    65,
		VisibilityM: 10000,
	}
}

func TestWeatherReport_Full(t *testing.T) {
	day := time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC) // a Friday

	view := WeatherView{
		Current: testConditions(),
		Hourly: []domain.ForecastPoint{
			{Time: day.Add(9 * time.Hour), TempC: 17.8, Icon: "01d", Description: "clear sky"},
			{Time: day.Add(15 * time.Hour), TempC: 22.1, Icon: "10d", Description: "light rain"},
		},
		Daily: []domain.ForecastPoint{
			{Time: day.Add(36 * time.Hour), TempC: 18.0, Icon: "03d", Description: "scattered clouds"},
			{Time: day.Add(60 * time.Hour), TempC: 14.9, Icon: "11d", Description: "thunderstorm"},
		},
		Label:    "Barcelona",
		Location: time.UTC,
	}

	lines := WeatherReport(view)

	assert.Equal(t, []string{
		"⛅ 21°C | size=14",
		"---",
		"🌡️ 21°C - Few clouds",
		"🌡️ Feels like: 20°C",
		"🌬️ Wind: 3.5 m/s",
		"💧 Humidity: 65%",
		"👁️ Visibility: 10.0 km",
		"---",
		"🕐 Today by hour:",
		"☀️ 09:00: 18°C - Clear sky | size=12",
		"🌦️ 15:00: 22°C - Light rain | size=12",
		"---",
		"📅 5-Day Forecast:",
		"☁️ Sat: 18°C - Scattered clouds | size=12",
		"⛈️ Sun: 15°C - Thunderstorm | size=12",
		"---",
		"🔄 Refresh | refresh=true",
		"📍 Barcelona",
	}, lines)
}

func TestWeatherReport_NoHourlyBlock(t *testing.T) {
	view := WeatherView{
		Current:  testConditions(),
		Label:    "Barcelona",
		Location: time.UTC,
	}

	lines := WeatherReport(view)

	assert.NotContains(t, lines, "🕐 Today by hour:")
	assert.Contains(t, lines, "📅 5-Day Forecast:")
}

func TestWeatherReport_UnknownIconFallsBack(t *testing.T) {
	view := WeatherView{
		Current:  domain.Conditions{Icon: "zz", Description: "odd"},
		Label:    "X",
		Location: time.UTC,
	}

	lines := WeatherReport(view)
	assert.Equal(t, "🌤️ 0°C | size=14", lines[0])
}

func TestWeatherReport_NegativeHalfDegreeRoundsUp(t *testing.T) {
	view := WeatherView{
		Current:  domain.Conditions{TempC: -3.5, Icon: "13d", Description: "snow"},
		Label:    "X",
		Location: time.UTC,
	}

	lines := WeatherReport(view)
	assert.Equal(t, "🌨️ -3°C | size=14", lines[0])
}

func TestWeatherReport_Idempotent(t *testing.T) {
	view := WeatherView{Current: testConditions(), Label: "Barcelona", Location: time.UTC}

	assert.Equal(t, WeatherReport(view), WeatherReport(view))
}

func TestWeatherFailure(t *testing.T) {
	lines := WeatherFailure(assert.AnError)

	assert.Equal(t, []string{
		"🌤️ Weather Error | color=red",
		"---",
		"❌ " + assert.AnError.Error(),
		"🔄 Retry | refresh=true",
		"---",
		"💡 Tips:",
		"• Check internet connection",
		"• Verify API key is valid",
	}, lines)
}
