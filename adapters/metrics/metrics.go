// Package metrics provides Prometheus metrics for the remote collaborator
// clients.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics for catalog and data-server
// traffic.
type Collector struct {
	CatalogQueries       *prometheus.CounterVec
	CatalogQueryDuration prometheus.Histogram

	Fetches       *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	OpenConnections prometheus.Gauge
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return newWith(promauto.With(prometheus.DefaultRegisterer))
}

// NewWithRegistry creates a collector on a custom registry. Useful for
// testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	return newWith(promauto.With(reg))
}

func newWith(factory promauto.Factory) *Collector {
	return &Collector{
		CatalogQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chankit",
				Name:      "catalog_queries_total",
				Help:      "Total number of catalog queries by status",
			},
			[]string{"status"},
		),
		CatalogQueryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "chankit",
				Name:      "catalog_query_duration_seconds",
				Help:      "Catalog query duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		Fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chankit",
				Name:      "fetches_total",
				Help:      "Total number of time-series fetches by status",
			},
			[]string{"status"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "chankit",
				Name:      "fetch_duration_seconds",
				Help:      "Time-series fetch duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		OpenConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "chankit",
				Name:      "data_connections_open",
				Help:      "Number of data-server connections currently open",
			},
		),
	}
}
