package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all widget settings, populated from environment variables
// and optionally from the per-widget JSON config files the menu-bar
// plugins historically shipped with.
type Config struct {
	Jira    JiraConfig
	Weather WeatherConfig
	GitHub  GitHubConfig

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	RequestTimeout  time.Duration
	MaxPages        int
	ShutdownTimeout time.Duration
}

// JiraConfig identifies the service-desk instance and the queues to page
// through.
type JiraConfig struct {
	BaseURL       string
	Email         string
	APIToken      string
	ServiceDeskID int
	Queues        []int
}

// WeatherConfig identifies the OpenWeatherMap location. Label defaults to
// the city name and only affects the report footer.
type WeatherConfig struct {
	APIKey string
	City   string
	Label  string
	Lat    float64
	Lon    float64
}

// GitHubConfig identifies the GitHub user whose PRs and review requests
// the widgets list.
type GitHubConfig struct {
	Token string
	Login string
}

// Options points Load at optional JSON config files. File values override
// the environment.
type Options struct {
	JiraFile    string
	WeatherFile string
	GitHubFile  string
}

// Load reads configuration from environment variables (with a best-effort
// .env load for local development), then overlays any JSON config files.
// Validation of the per-widget sections is left to the callers that need
// them; see [JiraConfig.Validate], [WeatherConfig.Validate], and
// [GitHubConfig.Validate].
func Load(opts Options) (*Config, error) {
	_ = godotenv.Load()

	timeout, err := durationOrDefault("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxPages, err := intOrDefault("MAX_PAGES", 1000)
	if err != nil {
		return nil, err
	}
	if maxPages <= 0 {
		return nil, errors.New("MAX_PAGES must be positive")
	}

	queues, err := parseQueues(os.Getenv("JIRA_QUEUES"))
	if err != nil {
		return nil, err
	}
	serviceDeskID, err := intOrDefault("JIRA_SERVICEDESK_ID", 1)
	if err != nil {
		return nil, err
	}

	lat, err := floatOrDefault("OPENWEATHER_LAT", 0)
	if err != nil {
		return nil, err
	}
	lon, err := floatOrDefault("OPENWEATHER_LON", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Jira: JiraConfig{
			BaseURL:       strings.TrimSuffix(os.Getenv("JIRA_DOMAIN"), "/"),
			Email:         os.Getenv("JIRA_USER_EMAIL"),
			APIToken:      os.Getenv("JIRA_API_TOKEN"),
			ServiceDeskID: serviceDeskID,
			Queues:        queues,
		},
		Weather: WeatherConfig{
			APIKey: os.Getenv("OPENWEATHER_API_KEY"),
			City:   os.Getenv("OPENWEATHER_CITY"),
			Label:  os.Getenv("OPENWEATHER_LABEL"),
			Lat:    lat,
			Lon:    lon,
		},
		GitHub: GitHubConfig{
			Token: os.Getenv("GITHUB_ACCESS_TOKEN"),
			Login: os.Getenv("GITHUB_LOGIN"),
		},
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		RequestTimeout:  timeout,
		MaxPages:        maxPages,
		ShutdownTimeout: shutdownTimeout,
	}

	if opts.JiraFile != "" {
		if err := cfg.applyJiraFile(opts.JiraFile); err != nil {
			return nil, err
		}
	}
	if opts.WeatherFile != "" {
		if err := cfg.applyWeatherFile(opts.WeatherFile); err != nil {
			return nil, err
		}
	}
	if opts.GitHubFile != "" {
		if err := cfg.applyGitHubFile(opts.GitHubFile); err != nil {
			return nil, err
		}
	}

	if cfg.Weather.Label == "" {
		cfg.Weather.Label = cfg.Weather.City
	}

	return cfg, nil
}

// Validate reports the first missing mandatory Jira key.
func (c JiraConfig) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.New("JIRA_DOMAIN is required")
	case c.Email == "":
		return errors.New("JIRA_USER_EMAIL is required")
	case c.APIToken == "":
		return errors.New("JIRA_API_TOKEN is required")
	case len(c.Queues) == 0:
		return errors.New("JIRA_QUEUES is required")
	}
	return nil
}

// Enabled reports whether the section is complete enough to serve.
func (c JiraConfig) Enabled() bool {
	return c.Validate() == nil
}

// Validate reports the first missing mandatory weather key.
func (c WeatherConfig) Validate() error {
	switch {
	case c.APIKey == "":
		return errors.New("OPENWEATHER_API_KEY is required")
	case c.City == "":
		return errors.New("OPENWEATHER_CITY is required")
	}
	return nil
}

// Enabled reports whether the section is complete enough to serve.
func (c WeatherConfig) Enabled() bool {
	return c.Validate() == nil
}

// Validate reports the first missing mandatory GitHub key.
func (c GitHubConfig) Validate() error {
	switch {
	case c.Token == "":
		return errors.New("GITHUB_ACCESS_TOKEN is required")
	case c.Login == "":
		return errors.New("GITHUB_LOGIN is required")
	}
	return nil
}

// Enabled reports whether the section is complete enough to serve.
func (c GitHubConfig) Enabled() bool {
	return c.Validate() == nil
}

// jiraFile mirrors the original jira-config.json plugin file.
type jiraFile struct {
	APIToken  string `json:"JIRA_API_TOKEN"`
	UserEmail string `json:"JIRA_USER_EMAIL"`
	Queues    []int  `json:"JIRA_QUEUES"`
	Domain    string `json:"JIRA_DOMAIN"`
}

func (c *Config) applyJiraFile(path string) error {
	var f jiraFile
	if err := readJSONFile(path, &f); err != nil {
		return err
	}
	if f.APIToken != "" {
		c.Jira.APIToken = f.APIToken
	}
	if f.UserEmail != "" {
		c.Jira.Email = f.UserEmail
	}
	if f.Domain != "" {
		c.Jira.BaseURL = strings.TrimSuffix(f.Domain, "/")
	}
	if len(f.Queues) > 0 {
		c.Jira.Queues = f.Queues
	}
	return nil
}

// weatherFile mirrors the original openweathermap.conf.json plugin file.
type weatherFile struct {
	APIKey string  `json:"API_KEY"`
	Lat    float64 `json:"LAT"`
	Lon    float64 `json:"LON"`
	City   string  `json:"CITY"`
	Label  string  `json:"LABEL"`
}

func (c *Config) applyWeatherFile(path string) error {
	var f weatherFile
	if err := readJSONFile(path, &f); err != nil {
		return err
	}
	if f.APIKey != "" {
		c.Weather.APIKey = f.APIKey
	}
	if f.City != "" {
		c.Weather.City = f.City
	}
	if f.Label != "" {
		c.Weather.Label = f.Label
	}
	if f.Lat != 0 {
		c.Weather.Lat = f.Lat
	}
	if f.Lon != 0 {
		c.Weather.Lon = f.Lon
	}
	return nil
}

// githubFile mirrors the original github-config.json plugin file.
type githubFile struct {
	AccessToken string `json:"GITHUB_ACCESS_TOKEN"`
	Login       string `json:"GITHUB_LOGIN"`
}

func (c *Config) applyGitHubFile(path string) error {
	var f githubFile
	if err := readJSONFile(path, &f); err != nil {
		return err
	}
	if f.AccessToken != "" {
		c.GitHub.Token = f.AccessToken
	}
	if f.Login != "" {
		c.GitHub.Login = f.Login
	}
	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func parseQueues(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	queues := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid JIRA_QUEUES entry %q", part)
		}
		queues = append(queues, id)
	}
	return queues, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOrDefault(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func floatOrDefault(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
