package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels used in metrics and logs.
const (
	opLoad   = "load"
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
)

// Metrics bundles Prometheus collectors for the catalog store.
type Metrics struct {
	Registry          *prometheus.Registry
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	InFlight          prometheus.Gauge
	CatalogSize       prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_operations_total",
			Help: "Catalog store operations by kind and outcome.",
		},
		[]string{"operation", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_operation_duration_seconds",
			Help:    "Gateway round trip time for catalog operations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_operations_in_flight",
			Help: "Catalog operations issued but not yet resolved.",
		},
	)
	size := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_books",
			Help: "Number of books in the catalog collection.",
		},
	)

	registry.MustRegister(operations, duration, inFlight, size)

	return &Metrics{
		Registry:          registry,
		OperationsTotal:   operations,
		OperationDuration: duration,
		InFlight:          inFlight,
		CatalogSize:       size,
	}
}

func (m *Metrics) observe(op string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.OperationsTotal.WithLabelValues(op, outcome).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(seconds)
}

func (m *Metrics) record(s State) {
	m.InFlight.Set(float64(s.Pending))
	m.CatalogSize.Set(float64(len(s.Books)))
}
