package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the widget
// pipelines. The one-shot binaries still record them (they show up in
// debug logs); widgetd additionally exposes them on /metrics.
type Metrics struct {
	FetchRequests    *prometheus.CounterVec // labels: source={jira,openweather}, outcome={success,error}
	PagesFetched     prometheus.Counter
	ItemsNormalized  prometheus.Counter
	MalformedRecords prometheus.Counter
	RunDuration      *prometheus.HistogramVec // label: widget={tickets,weather}
	ReportsRendered  *prometheus.CounterVec   // labels: widget, outcome={success,failure}
}

// NewMetrics creates and registers all widget metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.PagesFetched,
		m.ItemsNormalized,
		m.MalformedRecords,
		m.RunDuration,
		m.ReportsRendered,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menubar",
			Name:      "fetch_requests_total",
			Help:      "Outbound API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menubar",
			Name:      "pages_fetched_total",
			Help:      "Total queue pages fetched across all runs.",
		}),
		ItemsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menubar",
			Name:      "items_normalized_total",
			Help:      "Total raw items successfully normalized.",
		}),
		MalformedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menubar",
			Name:      "malformed_records_total",
			Help:      "Total raw items skipped because a mandatory field was missing.",
		}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "menubar",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-derive-render run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"widget"}),
		ReportsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menubar",
			Name:      "reports_rendered_total",
			Help:      "Rendered reports by widget and outcome.",
		}, []string{"widget", "outcome"}),
	}
}
