package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service exports.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreDuration   *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec
	PlasticsTotal   prometheus.Counter
	QuantityTotal   prometheus.Counter
	PaymentsTotal   *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ecoloop_store_operation_duration_seconds",
				Help:    "Document store load/save duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoloop_store_errors_total",
				Help: "Failed document store operations",
			},
			[]string{"backend", "operation"},
		),
		PlasticsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoloop_plastics_recorded_total",
			Help: "Recycling submissions recorded",
		}),
		QuantityTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ecoloop_plastic_quantity_total",
			Help: "Sum of submitted plastic quantities",
		}),
		PaymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ecoloop_payments_total",
				Help: "Payment attempts by provider status",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.StoreDuration,
		m.StoreErrors,
		m.PlasticsTotal,
		m.QuantityTotal,
		m.PaymentsTotal,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStore records one store operation
func (m *Metrics) ObserveStore(backend, op string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(backend, op).Observe(seconds)
	if err != nil {
		m.StoreErrors.WithLabelValues(backend, op).Inc()
	}
}

// PlasticRecorded counts a recorded submission
func (m *Metrics) PlasticRecorded(quantity float64) {
	if m == nil {
		return
	}
	m.PlasticsTotal.Inc()
	if quantity > 0 {
		m.QuantityTotal.Add(quantity)
	}
}

// PaymentProcessed counts a payment attempt; failures are labelled "error"
func (m *Metrics) PaymentProcessed(status string) {
	if m == nil {
		return
	}
	m.PaymentsTotal.WithLabelValues(status).Inc()
}
