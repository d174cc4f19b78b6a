package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every metric exported by themeflex.
const MetricsNamespace = "themeflex"

// Fetch outcomes recorded by ObserveCatalogFetch.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus collectors used across the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	catalogFetchTotal    *prometheus.CounterVec
	catalogFetchDuration prometheus.Histogram
	catalogProducts      prometheus.Gauge
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	themeChangesTotal    *prometheus.CounterVec
	contactTotal         *prometheus.CounterVec
}

// NewMetrics creates a dedicated registry with the application collectors
// plus the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		catalogFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "catalog_fetch_total",
			Help:      "Total number of product catalog fetches by outcome",
		}, []string{"outcome"}),

		catalogFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "catalog_fetch_duration_seconds",
			Help:      "Product catalog fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		catalogProducts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "catalog_products",
			Help:      "Number of products held by the current catalog snapshot",
		}),

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		themeChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "theme_changes_total",
			Help:      "Accepted theme selections by theme id",
		}, []string{"theme"}),

		contactTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveCatalogFetch records one catalog fetch.
func (m *Metrics) ObserveCatalogFetch(duration time.Duration, products int, err error) {
	if m == nil {
		return
	}
	m.catalogFetchDuration.Observe(duration.Seconds())
	if err != nil {
		m.catalogFetchTotal.WithLabelValues(OutcomeFailure).Inc()
		m.catalogProducts.Set(0)
		return
	}
	m.catalogFetchTotal.WithLabelValues(OutcomeSuccess).Inc()
	m.catalogProducts.Set(float64(products))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveThemeChange records an accepted theme selection.
func (m *Metrics) ObserveThemeChange(themeID string) {
	if m == nil {
		return
	}
	m.themeChangesTotal.WithLabelValues(themeID).Inc()
}

// ObserveContact records a contact submission outcome ("accepted" or "rejected").
func (m *Metrics) ObserveContact(outcome string) {
	if m == nil {
		return
	}
	m.contactTotal.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
