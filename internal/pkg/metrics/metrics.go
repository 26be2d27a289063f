package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Geocode outcomes
const (
	GeocodeOutcomeSuccess     = "success"
	GeocodeOutcomeCacheHit    = "cache_hit"
	GeocodeOutcomeSoftFailure = "soft_failure"
)

// Metrics - набор prometheus метрик сервиса на собственном registry
type Metrics struct {
	Registry            *prometheus.Registry
	ListingsCreated     prometheus.Counter
	ListingsUpdated     prometheus.Counter
	ListingsDeleted     prometheus.Counter
	GeocodeRequests     *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New регистрирует метрики сервиса и стандартные коллекторы Go/process
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_updated_total",
			Help:      "Total number of listings updated.",
		}),
		ListingsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_deleted_total",
			Help:      "Total number of listings deleted.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding resolutions by outcome.",
		}, []string{"outcome"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.ListingsCreated,
		m.ListingsUpdated,
		m.ListingsDeleted,
		m.GeocodeRequests,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// NewNop - метрики на отдельном registry, удобно в тестах
func NewNop() *Metrics {
	return New("test")
}
