package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/regpulse/dataschema/pkg/cache"
)

// Auth failure reasons
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonExpired = "expired"
)

// PrometheusExporter exports registry metrics to Prometheus format.
type PrometheusExporter struct {
	grpcRequests *prometheus.CounterVec
	grpcDuration *prometheus.HistogramVec
	grpcErrors   *prometheus.CounterVec
	schemaWrites *prometheus.CounterVec
	authFailures *prometheus.CounterVec
	reg          prometheus.Registerer
}

// NewPrometheusExporter creates an exporter whose metrics are registered on reg.
func NewPrometheusExporter(reg prometheus.Registerer) *PrometheusExporter {
	factory := promauto.With(reg)
	return &PrometheusExporter{
		reg: reg,
		grpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataschema_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method"},
		),
		grpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dataschema_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"method"},
		),
		grpcErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataschema_grpc_errors_total",
				Help: "Total number of gRPC errors by status code",
			},
			[]string{"method", "code"},
		),
		schemaWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataschema_schema_writes_total",
				Help: "Total number of stored schema versions",
			},
			[]string{"app"},
		),
		authFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dataschema_api_key_auth_failures_total",
				Help: "Total number of rejected API keys",
			},
			[]string{"reason"},
		),
	}
}

// ObserveCache exports the statistics of c, read at scrape time.
func (e *PrometheusExporter) ObserveCache(name string, c interface{ Metrics() *cache.Metrics }) {
	labels := prometheus.Labels{"cache": name}
	factory := promauto.With(e.reg)

	factory.NewCounterFunc(prometheus.CounterOpts{
		Name:        "dataschema_cache_hits_total",
		Help:        "Total number of cache hits",
		ConstLabels: labels,
	}, func() float64 { return float64(c.Metrics().Hits) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name:        "dataschema_cache_misses_total",
		Help:        "Total number of cache misses",
		ConstLabels: labels,
	}, func() float64 { return float64(c.Metrics().Misses) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name:        "dataschema_cache_evictions_total",
		Help:        "Total number of cache evictions due to memory limits",
		ConstLabels: labels,
	}, func() float64 { return float64(c.Metrics().KeysEvicted) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "dataschema_cache_keys_current",
		Help:        "Current number of keys in the cache",
		ConstLabels: labels,
	}, func() float64 { return float64(c.Metrics().KeysCurrent) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "dataschema_cache_memory_bytes",
		Help:        "Current estimated memory usage of the cache in bytes",
		ConstLabels: labels,
	}, func() float64 { return float64(c.Metrics().SizeBytes) })
}

// RecordRequest records a request in Prometheus.
func (e *PrometheusExporter) RecordRequest(method string) {
	e.grpcRequests.WithLabelValues(method).Inc()
}

// RecordDuration records a duration in Prometheus.
func (e *PrometheusExporter) RecordDuration(method string, durationSeconds float64) {
	e.grpcDuration.WithLabelValues(method).Observe(durationSeconds)
}

// RecordError records a failed request with its status code.
func (e *PrometheusExporter) RecordError(method, code string) {
	e.grpcErrors.WithLabelValues(method, code).Inc()
}

// RecordSchemaWrite records a stored schema version.
func (e *PrometheusExporter) RecordSchemaWrite(appID string) {
	e.schemaWrites.WithLabelValues(appID).Inc()
}

// RecordAuthFailure records a rejected API key.
func (e *PrometheusExporter) RecordAuthFailure(reason string) {
	e.authFailures.WithLabelValues(reason).Inc()
}
