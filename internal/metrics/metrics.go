package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for the service. Each registry
// owns its own prometheus.Registry so tests can build as many as they like.
type MetricsRegistry struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	RegistrationsCreatedTotal  *prometheus.CounterVec
	RegistrationDecisionsTotal *prometheus.CounterVec
	CapacityRejectionsTotal    prometheus.Counter
	NotificationsTotal         *prometheus.CounterVec
	JobDuration                *prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		registry: reg,

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kjhub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kjhub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		RegistrationsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_registrations_created_total",
				Help: "Registrations created or upgraded, by registration type",
			},
			[]string{"registration_type"},
		),
		RegistrationDecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_registration_decisions_total",
				Help: "Host decisions on registrations, by outcome",
			},
			[]string{"outcome"},
		),
		CapacityRejectionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kjhub_capacity_rejections_total",
				Help: "Approvals refused because the event was full",
			},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kjhub_notifications_total",
				Help: "Notifications written to the outbox, by type and result",
			},
			[]string{"type", "result"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kjhub_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"job_name"},
		),
	}
}

// Handler exposes this registry in the Prometheus text format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
