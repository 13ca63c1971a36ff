// Package metrics holds the prometheus collectors of the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tour-guide-server/congestion"
)

const namespace = "tour_guide"

// Metrics handles all application metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Refresh metrics
	RefreshRunsTotal    *prometheus.CounterVec
	RefreshDuration     prometheus.Histogram
	LastRefreshUnixTime prometheus.Gauge

	// Business metrics
	SpotsByLevel  *prometheus.GaugeVec
	TotalVisitors prometheus.Gauge
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),

		RefreshRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_runs_total",
				Help:      "Total number of spot refresh runs",
			},
			[]string{"status"},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "refresh_duration_seconds",
				Help:      "Spot refresh duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		LastRefreshUnixTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_refresh_timestamp_seconds",
				Help:      "Unix time of the last successful refresh",
			},
		),

		SpotsByLevel: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "spots",
				Help:      "Number of spots per congestion level in the current snapshot",
			},
			[]string{"level"},
		),
		TotalVisitors: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "expected_visitors",
				Help:      "Sum of expected visitors over the current snapshot",
			},
		),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRefresh records the outcome of one refresh run.
func (m *Metrics) RecordRefresh(err error, duration time.Duration, finishedAt time.Time) {
	m.RefreshDuration.Observe(duration.Seconds())
	if err != nil {
		m.RefreshRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.RefreshRunsTotal.WithLabelValues("success").Inc()
	m.LastRefreshUnixTime.Set(float64(finishedAt.Unix()))
}

// SetSummary publishes the aggregate of the current snapshot.
func (m *Metrics) SetSummary(summary congestion.Summary) {
	for _, c := range summary.Counts {
		m.SpotsByLevel.WithLabelValues(c.Level.String()).Set(float64(c.Count))
	}
	m.TotalVisitors.Set(float64(summary.TotalVisitors))
}
