package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ForecastPoint is one time-stamped forecast sample.
type ForecastPoint struct {
	Time        time.Time
	TempC       float64
	Icon        string
	Description string
}

// Conditions is the current-weather snapshot.
type Conditions struct {
	TempC       float64
	FeelsLikeC  float64
	Icon        string
	Description string
	WindSpeed   float64 // m/s
	Humidity    int     // percent
	VisibilityM int     // meters
}

type weatherField struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []weatherField `json:"weather"`
}

type forecastPayload struct {
	List []forecastEntry `json:"list"`
}

type currentPayload struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []weatherField `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
}

// ParseConditions decodes a current-weather payload. Missing weather
// descriptors degrade to the default icon at render time; invalid JSON
// fails the run.
func ParseConditions(payload []byte) (Conditions, error) {
	var rec currentPayload
	if err := json.Unmarshal(payload, &rec); err != nil {
		return Conditions{}, fmt.Errorf("decode current weather: %w", err)
	}

	c := Conditions{
		TempC:       rec.Main.Temp,
		FeelsLikeC:  rec.Main.FeelsLike,
		WindSpeed:   rec.Wind.Speed,
		Humidity:    rec.Main.Humidity,
		VisibilityM: rec.Visibility,
	}
	if len(rec.Weather) > 0 {
		c.Icon = rec.Weather[0].Icon
		c.Description = rec.Weather[0].Description
	}
	return c, nil
}

// ParseForecastPoints decodes a forecast payload into normalized points in
// list order. Entries without a timestamp are malformed and dropped; the
// second return value counts them so the caller can log the skips.
func ParseForecastPoints(payload []byte) ([]ForecastPoint, int, error) {
	var rec forecastPayload
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, 0, fmt.Errorf("decode forecast: %w", err)
	}

	points := make([]ForecastPoint, 0, len(rec.List))
	skipped := 0
	for _, e := range rec.List {
		if e.Dt == 0 {
			skipped++
			continue
		}
		p := ForecastPoint{
			Time:  time.Unix(e.Dt, 0),
			TempC: e.Main.Temp,
		}
		if len(e.Weather) > 0 {
			p.Icon = e.Weather[0].Icon
			p.Description = e.Weather[0].Description
		}
		points = append(points, p)
	}
	return points, skipped, nil
}

// maxDailyBuckets caps the daily forecast listing.
const maxDailyBuckets = 5

// DailyBuckets picks one representative point per calendar day in loc:
// the point at exactly 12:00 local time when present, otherwise the first
// point whose local hour falls in [11,14]. Days with no point in that
// window are omitted. Buckets appear in order of each day's first
// qualifying point, capped at five days.
func DailyBuckets(points []ForecastPoint, loc *time.Location) []ForecastPoint {
	type slot struct {
		point  ForecastPoint
		atNoon bool
	}
	byDay := make(map[string]*slot)
	var order []string

	for _, p := range points {
		local := p.Time.In(loc)
		hour := local.Hour()
		if hour < 11 || hour > 14 {
			continue
		}

		day := local.Format("2006-01-02")
		s, seen := byDay[day]
		if !seen {
			byDay[day] = &slot{point: p, atNoon: hour == 12}
			order = append(order, day)
			continue
		}
		if !s.atNoon && hour == 12 {
			s.point = p
			s.atNoon = true
		}
	}

	if len(order) > maxDailyBuckets {
		order = order[:maxDailyBuckets]
	}
	buckets := make([]ForecastPoint, 0, len(order))
	for _, day := range order {
		buckets = append(buckets, byDay[day].point)
	}
	return buckets
}

// HourlyToday filters points down to those on the same local calendar day
// as now, preserving source order. The result may be empty.
func HourlyToday(points []ForecastPoint, now time.Time) []ForecastPoint {
	loc := now.Location()
	today := now.In(loc).Format("2006-01-02")

	var out []ForecastPoint
	for _, p := range points {
		if p.Time.In(loc).Format("2006-01-02") == today {
			out = append(out, p)
		}
	}
	return out
}

// weatherIcons maps OpenWeatherMap icon codes to display glyphs. The day
// and night variants of some conditions share a glyph on purpose.
var weatherIcons = map[string]string{
	"01d": "☀️", "01n": "🌙", // clear sky
	"02d": "⛅", "02n": "☁️", // few clouds
	"03d": "☁️", "03n": "☁️", // scattered clouds
	"04d": "☁️", "04n": "☁️", // broken clouds
	"09d": "🌧️", "09n": "🌧️", // shower rain
	"10d": "🌦️", "10n": "🌧️", // rain
	"11d": "⛈️", "11n": "⛈️", // thunderstorm
	"13d": "🌨️", "13n": "🌨️", // snow
	"50d": "🌫️", "50n": "🌫️", // mist
}

const defaultWeatherIcon = "🌤️"

// WeatherIcon returns the glyph for an icon code, or the default glyph for
// unknown codes.
func WeatherIcon(code string) string {
	if icon, ok := weatherIcons[code]; ok {
		return icon
	}
	return defaultWeatherIcon
}
