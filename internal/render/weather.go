package render

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/xa-bi/bitbar-widgets/internal/domain"
)

// WeatherView carries everything the weather report needs, already
// derived. Location controls how timestamps render as local days/hours.
type WeatherView struct {
	Current  domain.Conditions
	Daily    []domain.ForecastPoint
	Hourly   []domain.ForecastPoint
	Label    string
	Location *time.Location
}

// WeatherReport renders the menu-bar summary, the current-conditions
// block, the optional today-by-hour block, and the 5-day forecast.
func WeatherReport(v WeatherView) []string {
	loc := v.Location
	if loc == nil {
		loc = time.Local
	}

	temp := formatTemp(v.Current.TempC)
	lines := []string{
		fmt.Sprintf("%s %s | size=14", domain.WeatherIcon(v.Current.Icon), temp),
		separator,
		fmt.Sprintf("🌡️ %s - %s", temp, capitalizeFirst(v.Current.Description)),
		fmt.Sprintf("🌡️ Feels like: %s", formatTemp(v.Current.FeelsLikeC)),
		fmt.Sprintf("🌬️ Wind: %s m/s", formatNumber(v.Current.WindSpeed)),
		fmt.Sprintf("💧 Humidity: %d%%", v.Current.Humidity),
		fmt.Sprintf("👁️ Visibility: %.1f km", float64(v.Current.VisibilityM)/1000),
		separator,
	}

	if len(v.Hourly) > 0 {
		lines = append(lines, "🕐 Today by hour:")
		for _, p := range v.Hourly {
			lines = append(lines, fmt.Sprintf("%s %s: %s - %s | size=12",
				domain.WeatherIcon(p.Icon), p.Time.In(loc).Format("15:04"), formatTemp(p.TempC), capitalizeFirst(p.Description)))
		}
		lines = append(lines, separator)
	}

	lines = append(lines, "📅 5-Day Forecast:")
	for _, p := range v.Daily {
		lines = append(lines, fmt.Sprintf("%s %s: %s - %s | size=12",
			domain.WeatherIcon(p.Icon), p.Time.In(loc).Format("Mon"), formatTemp(p.TempC), capitalizeFirst(p.Description)))
	}

	return append(lines,
		separator,
		"🔄 Refresh | refresh=true",
		fmt.Sprintf("📍 %s", v.Label),
	)
}

// WeatherFailure renders the full replacement report for a failed weather
// run.
func WeatherFailure(err error) []string {
	return []string{
		"🌤️ Weather Error | color=red",
		separator,
		fmt.Sprintf("❌ %v", err),
		"🔄 Retry | refresh=true",
		separator,
		"💡 Tips:",
		"• Check internet connection",
		"• Verify API key is valid",
	}
}

// formatTemp rounds half toward positive infinity, so -3.5 renders -3°C.
func formatTemp(c float64) string {
	return fmt.Sprintf("%d°C", int(math.Floor(c+0.5)))
}

// formatNumber prints a float the way the source APIs report it: no
// trailing zeros, no forced decimal point.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
